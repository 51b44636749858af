package plan

import "context"

// SessionRepository stores the last submitted form, one slot per editing
// session key. Save fully overwrites the slot; Get returns (nil, nil)
// when the slot is absent or expired.
type SessionRepository interface {
	Save(ctx context.Context, key string, form *SessionForm) error
	Get(ctx context.Context, key string) (*SessionForm, error)
	Delete(ctx context.Context, key string) error
	Cleanup(ctx context.Context) error
}
