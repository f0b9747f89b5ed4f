package application

import "errors"

// Failure taxonomy surfaced to the HTTP layer. Nothing here is retried
// automatically; resubmission is a client concern.
var (
	// ErrInvalidCredentials covers bad passwords, unknown accounts and
	// rejected social credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrEmailNotVerified means the credential exchange succeeded but the
	// verification gate refused to open a session.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrNotAuthenticated is returned when an operation that needs the
	// caller's identity is invoked without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoOwner is returned when an edit targets an entry with no
	// recorded owner.
	ErrNoOwner = errors.New("diary has no associated user")

	ErrNotFound = errors.New("not found")

	// ErrUpload wraps image upload failures; the entry is never written
	// when the upload fails.
	ErrUpload = errors.New("image upload failed")
)
