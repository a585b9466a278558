package session

import (
	"time"

	"github.com/google/uuid"
)

// TTL is the fixed absolute session lifetime. There is no sliding renewal;
// a session expires 24 hours after login regardless of activity.
const TTL = 24 * time.Hour

// Snapshot is the identity captured at login and attached to requests.
// It is the only authoritative identity after authentication.
type Snapshot struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
}

// Session binds an opaque cookie value to an identity snapshot.
type Session struct {
	ID        string    `json:"id"`
	Snapshot  Snapshot  `json:"snapshot"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its absolute expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
