package core

import (
	"context"
)

type ContextKey string

const SessionContextKey ContextKey = "session"

// ContextSession is the authenticated caller of a request.
type ContextSession struct {
	UserID      int64
	Authorities []string
}

func (s ContextSession) HasAuthority(authority string) bool {
	for _, a := range s.Authorities {
		if a == authority {
			return true
		}
	}

	return false
}

func WithSession(ctx context.Context, session ContextSession) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

func Session(ctx context.Context) (ContextSession, bool) {
	session, ok := ctx.Value(SessionContextKey).(ContextSession)
	return session, ok
}
