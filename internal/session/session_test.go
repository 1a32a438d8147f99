package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetUnknownToken(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	sess, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStore_ExpiryAndRefresh(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "tok", &Session{Username: "a", Role: "admin"}, 30*time.Minute))

	// inside the window
	now = now.Add(29 * time.Minute)
	sess, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "a", sess.Username)

	// refresh slides the deadline out again
	require.NoError(t, s.Refresh(ctx, "tok", 30*time.Minute))
	now = now.Add(29 * time.Minute)
	sess, err = s.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, sess)

	// without another refresh the session times out
	now = now.Add(31 * time.Minute)
	sess, err = s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStore_SaveSweepsExpiredEntries(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "abandoned-1", &Session{Username: "a", Role: "admin"}, 30*time.Minute))
	require.NoError(t, s.Save(ctx, "abandoned-2", &Session{Username: "b", Role: "admin"}, 30*time.Minute))

	// both deadlines pass without either token ever being looked up again
	now = now.Add(31 * time.Minute)
	require.NoError(t, s.Save(ctx, "fresh", &Session{Username: "c", Role: "admin"}, 30*time.Minute))

	assert.Len(t, s.entries, 1)
	assert.Contains(t, s.entries, "fresh")
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", &Session{Username: "a", Role: "admin"}, time.Minute))
	require.NoError(t, s.Delete(ctx, "tok"))
	require.NoError(t, s.Delete(ctx, "tok"))

	sess, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), 30*time.Minute)
	ctx := context.Background()

	token, err := m.Begin(ctx, &Session{Username: "root", Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := m.Current(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "root", sess.Username)
	assert.Equal(t, "admin", sess.Role)

	token2, err := m.Begin(ctx, &Session{Username: "other", Role: "admin"})
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)

	require.NoError(t, m.End(ctx, token))
	sess, err = m.Current(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCookieShape(t *testing.T) {
	t.Parallel()

	ck := Cookie("tok", 30*time.Minute)
	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), ck.Expires, 5*time.Second)

	gone := ExpiredCookie()
	assert.Equal(t, CookieName, gone.Name)
	assert.Empty(t, gone.Value)
	assert.Negative(t, gone.MaxAge)
}
