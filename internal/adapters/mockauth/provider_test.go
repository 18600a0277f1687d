package mockauth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
)

func newTestProvider(t *testing.T, reuse bool) *Provider {
	t.Helper()
	prov, err := NewProvider(Config{
		User:           domainauth.User{ID: "test-123", Login: "test", FirstName: "first_name", LastName: "last_name"},
		Password:       "123",
		ReuseCSRFToken: reuse,
	})
	require.NoError(t, err)
	return prov
}

func TestNewProvider_RequiresIdentity(t *testing.T) {
	_, err := NewProvider(Config{User: domainauth.User{Login: "test"}, Password: "123"})
	assert.Error(t, err)
	_, err = NewProvider(Config{User: domainauth.User{ID: "test-123"}, Password: "123"})
	assert.Error(t, err)
	_, err = NewProvider(Config{User: domainauth.User{ID: "test-123", Login: "test"}})
	assert.Error(t, err)
}

func TestNewCSRFToken(t *testing.T) {
	tok, err := NewCSRFToken()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(tok, CSRFTokenPrefix))

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(tok, CSRFTokenPrefix))
	require.NoError(t, err)
	assert.Len(t, raw, 12)

	other, err := NewCSRFToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestProvider_IssueCSRFToken(t *testing.T) {
	fresh := newTestProvider(t, false)
	tok, err := fresh.IssueCSRFToken("mock-csrf-existing")
	require.NoError(t, err)
	assert.NotEqual(t, "mock-csrf-existing", tok)

	reusing := newTestProvider(t, true)
	tok, err = reusing.IssueCSRFToken("mock-csrf-existing")
	require.NoError(t, err)
	assert.Equal(t, "mock-csrf-existing", tok)

	tok, err = reusing.IssueCSRFToken("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, CSRFTokenPrefix))
}

func TestCSRFMatches(t *testing.T) {
	tests := []struct {
		cookie, header string
		want           bool
	}{
		{"mock-csrf-AbC", "mock-csrf-AbC", true},
		{"mock-csrf-AbC", "MOCK-CSRF-abc", true},
		{"mock-csrf-AbC", "mock-csrf-xyz", false},
		{"mock-csrf-AbC", "", false},
		{"", "", true},
		{"", "mock-csrf-AbC", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSRFMatches(tt.cookie, tt.header), "cookie=%q header=%q", tt.cookie, tt.header)
	}
}

func TestProvider_CheckCredentials(t *testing.T) {
	prov := newTestProvider(t, false)
	assert.True(t, prov.CheckCredentials("test", "123"))
	assert.False(t, prov.CheckCredentials("test", "wrong"))
	assert.False(t, prov.CheckCredentials("other", "123"))
	assert.False(t, prov.CheckCredentials("", ""))
}

func TestProvider_Sessions(t *testing.T) {
	prov := newTestProvider(t, false)
	assert.Equal(t, "mock-session-test-123", prov.SessionValue())

	user, ok := prov.UserForSession(prov.SessionValue())
	require.True(t, ok)
	assert.Equal(t, "test", user.Login)

	for _, bad := range []string{"", "mock-session-", "mock-session-other", "test-123", "session-test-123"} {
		_, ok := prov.UserForSession(bad)
		assert.False(t, ok, bad)
	}
}
