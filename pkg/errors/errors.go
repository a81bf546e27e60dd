package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Base categories. Specific errors below wrap one of these so callers can
// match either the exact error or the whole class with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrChatNotFound           = fmt.Errorf("chat %w", ErrNotFound)
	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrMembershipNotFound     = fmt.Errorf("active membership %w", ErrNotFound)
	ErrNotParticipant         = fmt.Errorf("not a participant: %w", ErrPermission)
	ErrLeftChat               = fmt.Errorf("sender has left this chat: %w", ErrPermission)
	ErrRoleRequired           = fmt.Errorf("admin or moderator role required: %w", ErrPermission)
	ErrEmptyMessage           = fmt.Errorf("message content or media required: %w", ErrValidation)
	ErrDirectChatParticipants = fmt.Errorf("direct chat requires exactly two distinct participants: %w", ErrValidation)
	ErrDirectChatImmutable    = fmt.Errorf("direct chat membership cannot be changed: %w", ErrValidation)
	ErrEmptyParticipants      = fmt.Errorf("participant list must not be empty: %w", ErrValidation)
	ErrDirectChatExists       = fmt.Errorf("direct chat already exists: %w", ErrConflict)
)

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
