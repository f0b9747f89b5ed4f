package application

import (
	"context"
	"sync"
	"time"
)

// Diary feed event types pushed to live subscribers.
const (
	EventDiaryCreated = "diary-created"
	EventDiaryUpdated = "diary-updated"
	EventDiaryDeleted = "diary-deleted"
)

// FeedEvent tells subscribers the diary collection changed; consumers
// re-query for the fresh ordered list rather than patching state.
type FeedEvent struct {
	Type      string    `json:"type"`
	DiaryID   string    `json:"diary_id"`
	Timestamp time.Time `json:"timestamp"`
}

type feedSubscriber struct {
	id     int64
	stream chan FeedEvent
}

// Dispatcher fans diary change events out to live subscribers. Slow
// subscribers drop events instead of blocking the writer: a write is
// never held up or aborted by a dead SSE connection.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[int64]*feedSubscriber
	nextID      int64
	bufferSize  int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[int64]*feedSubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers a listener bound to ctx; cancelling ctx (or
// calling the returned func) unsubscribes it.
func (d *Dispatcher) Subscribe(ctx context.Context) (<-chan FeedEvent, func()) {
	d.mu.Lock()
	d.nextID++
	sub := &feedSubscriber{
		id:     d.nextID,
		stream: make(chan FeedEvent, d.bufferSize),
	}
	d.subscribers[sub.id] = sub
	d.mu.Unlock()

	cleanup := func() {
		d.mu.Lock()
		delete(d.subscribers, sub.id)
		d.mu.Unlock()
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return sub.stream, cleanup
}

func (d *Dispatcher) Publish(event FeedEvent) {
	if event.Type == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	d.mu.RLock()
	copies := make([]*feedSubscriber, 0, len(d.subscribers))
	for _, sub := range d.subscribers {
		copies = append(copies, sub)
	}
	d.mu.RUnlock()
	for _, sub := range copies {
		select {
		case sub.stream <- event:
		default:
		}
	}
}
