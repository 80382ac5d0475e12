package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/registration"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "regforms_session"

// session holds one form instance per variant. mu serialises every request
// of the session.
type session struct {
	mu    sync.Mutex
	id    string
	seen  time.Time
	forms map[string]*form.Form
}

// form returns the instance of variant, creating it on first use. The caller
// holds mu.
func (s *session) form(variant registration.Variant, options []form.Option) *form.Form {
	if f, ok := s.forms[variant.ID]; ok {
		return f
	}
	f := form.New(variant, options...)
	s.forms[variant.ID] = f
	return f
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*session),
	}
}

// get returns a live session and refreshes its idle timer.
func (s *sessionStore) get(id string) (*session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.seen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.seen = now
	return sess, true
}

func (s *sessionStore) create() *session {
	sess := &session{
		id:    uuid.NewString(),
		seen:  s.now(),
		forms: make(map[string]*form.Form),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// prune drops sessions idle longer than the TTL and reports how many remain.
func (s *sessionStore) prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.seen) > s.ttl {
			delete(s.sessions, id)
		}
	}
	return len(s.sessions)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// run prunes every interval until ctx is done.
func (s *sessionStore) run(ctx context.Context, interval time.Duration, report func(remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := s.prune()
			if report != nil {
				report(remaining)
			}
		}
	}
}

// session resolves the request session, issuing a new cookie when the
// request carries none or an expired one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.get(cookie.Value); ok {
			return sess
		}
	}

	sess := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		MaxAge:   int(s.cfg.Server.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.metrics.SetSessions(s.sessions.len())
	return sess
}
