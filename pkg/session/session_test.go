package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focusflow/pkg/store"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestKeeperRoundTrip(t *testing.T) {
	b := store.NewMemoryBackend()
	k := NewKeeper(b)
	assert.False(t, k.Get().Valid())
	assert.Equal(t, store.Guest, k.Get().Namespace())

	k.Set(Session{Token: "abc", Name: "Ada", UserID: "42"})
	assert.Equal(t, "abc", k.Token())

	// A fresh keeper reads it back from the backend.
	other := NewKeeper(b)
	assert.Equal(t, Session{Token: "abc", Name: "Ada", UserID: "42"}, other.Get())
	assert.Equal(t, "42", other.Get().Namespace())

	other.Clear()
	assert.False(t, other.Get().Valid())
	assert.False(t, NewKeeper(b).Get().Valid())
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	past := Session{Token: signed(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})}
	assert.True(t, past.Expired(now))

	future := Session{Token: signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})}
	assert.False(t, future.Expired(now))
	exp, ok := future.ExpiresAt()
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Hour).Unix(), exp.Unix())

	opaque := Session{Token: "not-a-jwt"}
	assert.False(t, opaque.Expired(now))

	noExp := Session{Token: signed(t, jwt.MapClaims{"sub": "42"})}
	assert.False(t, noExp.Expired(now))
}
