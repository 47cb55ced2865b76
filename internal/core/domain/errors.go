package domain

import "errors"

// Every failure the core can raise belongs to one of these kinds. The API
// layer maps each to a transport status exactly once; nothing below it
// swallows a failure.
var (
	// ErrInvalidInput covers malformed request data the caller can correct.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken covers unknown and expired refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrEmailTaken signals a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTooManyLoginAttempts signals the login throttle kicked in.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")

	ErrForbidden     = errors.New("access forbidden")
	ErrUserNotFound  = errors.New("user not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrImageNotFound = errors.New("image not found")
	ErrFileNotFound  = errors.New("file not found")

	// ErrIdempotencyKeyUsed signals that a create request replays a key that
	// already produced a post.
	ErrIdempotencyKeyUsed = errors.New("idempotency key already used")

	// ErrAlreadyPublished signals a publish attempt on a published post.
	ErrAlreadyPublished = errors.New("post already published")

	// ErrFileMissing indicates an image record whose backing file is gone, a
	// data-integrity problem that must surface rather than be cleaned up.
	ErrFileMissing = errors.New("stored file missing for image record")

	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptedStore indicates the file-backed store exists on disk but
	// cannot be parsed. The store never reinitializes over it.
	ErrCorruptedStore = errors.New("corrupted store file")
)
