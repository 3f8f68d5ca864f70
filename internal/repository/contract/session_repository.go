package contract

import (
	"context"

	"admissions-chatbot-be/pkg/store"
)

// SessionRepository persists per-conversation dialogue state. Get returns
// (nil, nil) when the session does not exist or has expired.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, error)
	Delete(ctx context.Context, sessionID string) error
}
