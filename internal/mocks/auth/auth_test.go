package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCookieStore(t *testing.T) {
	store := NewMemoryCookieStore(map[string]string{"csrf": "abc"})

	assert.Equal(t, "abc", store.Get("csrf"))
	assert.Equal(t, "", store.Get("missing"))

	store.Set(&http.Cookie{Name: "session", Value: "s1"})
	assert.Equal(t, "s1", store.Get("session"))

	store.Set(&http.Cookie{Name: "session", MaxAge: -1})
	assert.False(t, store.Has("session"))

	store.Delete("csrf")
	assert.False(t, store.Has("csrf"))
}

func TestStubUserInfo(t *testing.T) {
	stub := NewStubUserInfo()
	user, err := stub.GetAuthInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-123", user.ID)

	stub.Err = errors.New("401")
	_, err = stub.GetAuthInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, stub.Calls())
}

func TestMemoryValidationCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cache := NewMemoryValidationCache()
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Store(ctx, "k", time.Minute))
	hit, err := cache.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(2 * time.Minute)
	hit, err = cache.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, cache.Len())

	require.Error(t, cache.Store(ctx, "", time.Minute))

	cache.FailWith = errors.New("down")
	_, err = cache.Lookup(ctx, "k")
	require.Error(t, err)
}
