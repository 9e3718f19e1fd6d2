package apiclient

import (
	"context"
	"net/http"
	"sync/atomic"
)

type sessionStateKey struct{}

// SessionState records, for one incoming request, whether the backend
// rejected the caller's session.
type SessionState struct {
	expired atomic.Bool
}

// Expired reports whether the backend rejected the session.
func (s *SessionState) Expired() bool {
	return s.expired.Load()
}

func (s *SessionState) MarkExpired() {
	s.expired.Store(true)
}

// WithSessionState attaches a fresh SessionState to ctx.
func WithSessionState(ctx context.Context) (context.Context, *SessionState) {
	state := &SessionState{}
	return context.WithValue(ctx, sessionStateKey{}, state), state
}

// SessionStateFrom returns the state attached by WithSessionState, or nil.
func SessionStateFrom(ctx context.Context) *SessionState {
	state, _ := ctx.Value(sessionStateKey{}).(*SessionState)
	return state
}

// DetectSessionExpired is the default Interceptor. A 401 on a call that
// carried a session id marks the session as expired. Calls made without a
// session, such as a login attempt, are left alone.
func DetectSessionExpired(ctx context.Context, sess Session, err error) {
	if sess.SessionID == "" || StatusOf(err) != http.StatusUnauthorized {
		return
	}
	if state := SessionStateFrom(ctx); state != nil {
		state.MarkExpired()
	}
}
