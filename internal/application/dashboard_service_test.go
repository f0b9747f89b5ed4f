package application

import (
	"context"
	"testing"
	"time"

	"github.com/viajante/journal/internal/domain/entity"
)

func TestWeekPostsZeroFillsMissingDays(t *testing.T) {
	// Fixed clock: 2026-03-10. The window is 2026-03-04 .. 2026-03-10.
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	var gotSince time.Time
	repo := &diaryRepoMock{
		CountByDayFn: func(_ context.Context, since time.Time) ([]entity.DayCount, error) {
			gotSince = since
			return []entity.DayCount{
				{Day: "2026-03-05", Count: 2},
				{Day: "2026-03-10", Count: 1},
			}, nil
		},
	}
	svc := &DashboardService{Repo: repo, Now: func() time.Time { return now }}

	out, err := svc.WeekPosts(context.Background())
	if err != nil {
		t.Fatalf("WeekPosts: %v", err)
	}
	if len(out) != 7 {
		t.Fatalf("want 7 days, got %d", len(out))
	}
	if gotSince.Format("2006-01-02") != "2026-03-04" {
		t.Fatalf("window starts at %s, want 2026-03-04", gotSince.Format("2006-01-02"))
	}
	if out[0].Day != "2026-03-04" || out[6].Day != "2026-03-10" {
		t.Fatalf("days out of order: first=%s last=%s", out[0].Day, out[6].Day)
	}
	want := map[string]int{"2026-03-05": 2, "2026-03-10": 1}
	for _, dc := range out {
		if dc.Count != want[dc.Day] {
			t.Fatalf("day %s count=%d, want %d", dc.Day, dc.Count, want[dc.Day])
		}
	}
}

func TestWeekPostsWindowIsUTC(t *testing.T) {
	// Local clock is already past midnight on March 10 in UTC+13, but in
	// UTC it is still midday March 9. The window must follow UTC.
	loc := time.FixedZone("UTC+13", 13*60*60)
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
	var gotSince time.Time
	repo := &diaryRepoMock{
		CountByDayFn: func(_ context.Context, since time.Time) ([]entity.DayCount, error) {
			gotSince = since
			return nil, nil
		},
	}
	svc := &DashboardService{Repo: repo, Now: func() time.Time { return now }}

	out, err := svc.WeekPosts(context.Background())
	if err != nil {
		t.Fatalf("WeekPosts: %v", err)
	}
	if got := gotSince.Format("2006-01-02"); got != "2026-03-03" {
		t.Fatalf("window starts at %s, want 2026-03-03", got)
	}
	if gotSince.Location() != time.UTC {
		t.Fatalf("window start is in %v, want UTC", gotSince.Location())
	}
	if out[0].Day != "2026-03-03" || out[6].Day != "2026-03-09" {
		t.Fatalf("days out of range: first=%s last=%s", out[0].Day, out[6].Day)
	}
}

func TestLastPostsUsesFixedLimit(t *testing.T) {
	var gotLimit int
	repo := &diaryRepoMock{
		LastPostsFn: func(_ context.Context, limit int) ([]entity.Diary, error) {
			gotLimit = limit
			return []entity.Diary{{ID: "d1"}}, nil
		},
	}
	svc := &DashboardService{Repo: repo}

	list, err := svc.LastPosts(context.Background())
	if err != nil {
		t.Fatalf("LastPosts: %v", err)
	}
	if gotLimit != 5 {
		t.Fatalf("want limit 5, got %d", gotLimit)
	}
	if len(list) != 1 {
		t.Fatalf("want 1 entry, got %d", len(list))
	}
}
