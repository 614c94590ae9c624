package domain

import "errors"

// Error kinds every operation reports through. Callers match with
// errors.Is and map them to a user-facing rejection; none is fatal.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
)

// Session is the ephemeral per-client record of an authenticated admin.
// The zero value is an anonymous session. Sessions are never persisted;
// they travel with the request and are passed into every operation that
// needs authorization.
type Session struct {
	Username string
	IsAdmin  bool
}

// LoggedIn reports whether the session belongs to an authenticated admin.
func (s Session) LoggedIn() bool {
	return s.IsAdmin && s.Username != ""
}
