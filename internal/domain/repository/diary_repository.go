package repository

import (
	"context"
	"time"

	"github.com/viajante/journal/internal/domain/entity"
)

// DiaryRepository defines persistence for diary entries.
//
// ListAll and ListByUser return entries ordered by created_at descending
// with id as a stable tiebreak. Update merges the supplied fields into
// the existing row; Delete is unconditional by id.
type DiaryRepository interface {
	Create(ctx context.Context, d *entity.Diary) error
	GetByID(ctx context.Context, id string) (*entity.Diary, error)
	ListAll(ctx context.Context) ([]entity.Diary, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Diary, error)
	Update(ctx context.Context, d *entity.Diary) error
	Delete(ctx context.Context, id string) error

	// Dashboard aggregates
	LastPosts(ctx context.Context, limit int) ([]entity.Diary, error)
	CountByLocation(ctx context.Context) ([]entity.LocationCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]entity.DayCount, error)
}
