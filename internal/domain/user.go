package domain

import (
	"time"

	"github.com/google/uuid"
)

// User rows are owned by the identity service; this service only reads them
// for display names and participant validation.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
