package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/focusflow/pkg/session"
)

var errNoAPI = errors.New("app: no API configured")

// Login signs in and switches to the user's partition. Anything recorded as
// a guest is carried over.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	if s.remote == nil {
		return session.Session{}, errNoAPI
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Session{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	sess, err := s.remote.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}

	guest := s.Store()
	s.keeper.Set(sess)
	s.switchUser()
	if guest.Namespace() != s.Store().Namespace() {
		if n := s.adoptGuest(guest); n > 0 {
			s.log.Info("carried over guest tasks", "count", n)
			if _, err := s.Reconcile(ctx); err != nil {
				s.log.Warn("guest tasks not uploaded yet", "err", err)
			}
		}
	}
	return sess, nil
}

// Signup registers an account. Call Login afterwards.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	if s.remote == nil {
		return errNoAPI
	}
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	return s.remote.Signup(ctx, name, email, password)
}

// Logout pushes anything pending, forgets the token and switches to the
// guest partition. The user's cached data stays in its own partition.
func (s *Service) Logout() {
	s.sched.Flush()
	s.keeper.Clear()
	s.switchUser()
}

// SessionExpired reacts to the server rejecting the token; the session
// itself has already been cleared by then.
func (s *Service) SessionExpired() {
	s.sched.Stop()
	s.switchUser()
}
