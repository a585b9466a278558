package session

import "context"

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) for unknown or expired sessions: absence of a valid
// session is equivalent to anonymous identity, not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
