package application

import (
	"context"
	"time"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
)

const lastPostsLimit = 5

// DashboardService computes the admin dashboard aggregates.
type DashboardService struct {
	Repo repository.DiaryRepository
	Now  func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// LastPosts returns the newest entries for the "last posts" panel.
func (s *DashboardService) LastPosts(ctx context.Context) ([]entity.Diary, error) {
	return s.Repo.LastPosts(ctx, lastPostsLimit)
}

// CommonLocals returns how often each location appears across entries,
// most common first.
func (s *DashboardService) CommonLocals(ctx context.Context) ([]entity.LocationCount, error) {
	return s.Repo.CountByLocation(ctx)
}

// WeekPosts returns per-day post counts for the trailing seven UTC
// days, oldest day first, with zero-filled gaps so the chart always
// shows a full week. Days are bucketed in UTC on both sides so the
// repository keys and the zero-filled window never drift apart.
func (s *DashboardService) WeekPosts(ctx context.Context) ([]entity.DayCount, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)

	counts, err := s.Repo.CountByDay(ctx, since)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}

	out := make([]entity.DayCount, 0, 7)
	for i := 0; i < 7; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, entity.DayCount{Day: day, Count: byDay[day]})
	}
	return out, nil
}
