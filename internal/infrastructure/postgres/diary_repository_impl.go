package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
)

type DiaryRepository struct {
	pool *pgxpool.Pool
}

func NewDiaryRepository(pool *pgxpool.Pool) *DiaryRepository {
	return &DiaryRepository{pool: pool}
}

const diaryColumns = `id, title, content, location, image_url, user_id, user_nick, user_name, created_at, updated_at`

func scanDiary(row pgx.Row) (*entity.Diary, error) {
	d := &entity.Diary{}
	if err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Location, &d.ImageURL,
		&d.UserID, &d.UserNick, &d.UserName, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func collectDiaries(rows pgx.Rows) ([]entity.Diary, error) {
	defer rows.Close()
	out := make([]entity.Diary, 0)
	for rows.Next() {
		var d entity.Diary
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Location, &d.ImageURL,
			&d.UserID, &d.UserNick, &d.UserName, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create writes a new entry. created_at comes from the database clock so
// clients can never back- or forward-date an entry.
func (r *DiaryRepository) Create(ctx context.Context, d *entity.Diary) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO diaries (title, content, location, image_url, user_id, user_nick, user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, d.Title, d.Content, d.Location, d.ImageURL, d.UserID, d.UserNick, d.UserName)

	return row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DiaryRepository) GetByID(ctx context.Context, id string) (*entity.Diary, error) {
	return scanDiary(r.pool.QueryRow(ctx, `SELECT `+diaryColumns+` FROM diaries WHERE id = $1`, id))
}

func (r *DiaryRepository) ListAll(ctx context.Context) ([]entity.Diary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+diaryColumns+` FROM diaries ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	return collectDiaries(rows)
}

func (r *DiaryRepository) ListByUser(ctx context.Context, userID string) ([]entity.Diary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+diaryColumns+` FROM diaries WHERE user_id = $1 ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectDiaries(rows)
}

// Update merges the entry's fields into the stored row. Owner fields and
// created_at are immutable once written.
func (r *DiaryRepository) Update(ctx context.Context, d *entity.Diary) error {
	d.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE diaries
		SET title = $1, content = $2, location = $3, image_url = $4, updated_at = $5
		WHERE id = $6
	`, d.Title, d.Content, d.Location, d.ImageURL, d.UpdatedAt, d.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diaries WHERE id = $1`, id)
	return err
}

func (r *DiaryRepository) LastPosts(ctx context.Context, limit int) ([]entity.Diary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+diaryColumns+` FROM diaries ORDER BY created_at DESC, id LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return collectDiaries(rows)
}

func (r *DiaryRepository) CountByLocation(ctx context.Context) ([]entity.LocationCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT location, COUNT(*) FROM diaries
		WHERE location <> ''
		GROUP BY location
		ORDER BY COUNT(*) DESC, location
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]entity.LocationCount, 0)
	for rows.Next() {
		var lc entity.LocationCount
		if err := rows.Scan(&lc.Location, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

func (r *DiaryRepository) CountByDay(ctx context.Context, since time.Time) ([]entity.DayCount, error) {
	// Bucket by UTC day regardless of the session timezone so the zero
	// filling done by the dashboard service lines up with these keys.
	rows, err := r.pool.Query(ctx, `
		SELECT to_char((created_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD'), COUNT(*)
		FROM diaries
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]entity.DayCount, 0)
	for rows.Next() {
		var dc entity.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

var _ repository.DiaryRepository = (*DiaryRepository)(nil)
