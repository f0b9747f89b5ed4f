package repository

import (
	"context"

	"github.com/viajante/journal/internal/domain/entity"
)

// UserRepository defines persistence for user profiles.
//
// Upsert carries the merge semantics the auth flows rely on: when a row
// with the same email already exists only the profile fields supplied by
// the caller are refreshed. is_admin is left untouched, so a login side
// effect can never promote or demote an account. is_verified is OR-ed
// with the incoming value: a verified social login marks the account
// verified, but an already-verified account is never demoted.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Upsert(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerified(ctx context.Context, id string) error
}
