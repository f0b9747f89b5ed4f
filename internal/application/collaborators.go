package application

import (
	"context"
	"io"
	"time"

	"github.com/viajante/journal/internal/infrastructure/social"
)

// SessionStore keeps the per-user session hash (the server-side analogue
// of "who is logged in right now"). Implemented on Redis.
type SessionStore interface {
	Save(ctx context.Context, userID, sessionID string, fields map[string]string) error
	Get(ctx context.Context, userID string) (map[string]string, error)
	Delete(ctx context.Context, userID string) error
}

// TokenStore holds one-shot tokens (email verification, password reset)
// keyed by kind. Take consumes the token: a second Take returns empty.
type TokenStore interface {
	Set(ctx context.Context, kind, token, userID string, ttl time.Duration) error
	Take(ctx context.Context, kind, token string) (string, error)
}

// Publisher enqueues a job for asynchronous delivery. Satisfied by
// helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Uploader stores a blob and returns its durable URL. Satisfied by
// helpers.GCSUploader.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// SocialVerifier validates a provider credential and returns the
// asserted identity.
type SocialVerifier interface {
	Verify(ctx context.Context, credential string) (*social.Identity, error)
}
