// Package session keeps the signed-in user's token. It is stored outside
// every user partition so the store can be opened for the right namespace.
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tableflip.dev/focusflow/pkg/logging"
	"tableflip.dev/focusflow/pkg/store"
)

// Key is the backend key holding the session.
const Key = "session"

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token" yaml:"-"`
	Name   string `json:"name" yaml:"name"`
	UserID string `json:"userId" yaml:"userId"`
}

// Valid reports whether a token is present.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Namespace is the store partition for this session.
func (s Session) Namespace() string {
	if s.UserID == "" {
		return store.Guest
	}
	return s.UserID
}

// ExpiresAt reads the exp claim without verifying the signature; the server
// is the one that checks it. ok is false for opaque or exp-less tokens.
func (s Session) ExpiresAt() (t time.Time, ok bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// Keeper loads and saves the session.
type Keeper struct {
	backend store.Backend

	mu  sync.Mutex
	cur *Session
}

// NewKeeper returns a Keeper over b.
func NewKeeper(b store.Backend) *Keeper {
	return &Keeper{backend: b}
}

// Get returns the current session, zero if nobody is signed in.
func (k *Keeper) Get() Session {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.cur != nil {
		return *k.cur
	}
	var s Session
	raw, err := k.backend.Read(Key)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		logging.Store().Warn("read session", "err", err)
	default:
		if err := json.Unmarshal(raw, &s); err != nil {
			logging.Store().Warn("decode session", "err", err)
			s = Session{}
		}
	}
	k.cur = &s
	return s
}

// Token is the bearer token, empty when signed out.
func (k *Keeper) Token() string {
	return k.Get().Token
}

// Set stores s. Write failures are logged; the session still applies to
// this process.
func (k *Keeper) Set(s Session) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cur = &s
	raw, err := json.Marshal(s)
	if err != nil {
		logging.Store().Warn("encode session", "err", err)
		return
	}
	if err := k.backend.Write(Key, raw); err != nil {
		logging.Store().Warn("write session", "err", err)
	}
}

// Clear signs out.
func (k *Keeper) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cur = &Session{}
	if err := k.backend.Erase(Key); err != nil {
		logging.Store().Warn("erase session", "err", err)
	}
}
