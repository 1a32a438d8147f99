package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	body := map[string]string{"username": "a", "password": "p", "secret_key": "root"}
	rec := env.doJSON(http.MethodPost, "/api/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])

	// same username again conflicts
	rec = env.doJSON(http.MethodPost, "/api/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_WrongSecret(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.doJSON(http.MethodPost, "/api/register", map[string]string{
		"username": "a", "password": "p", "secret_key": "guess",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "no username", body: map[string]string{"password": "p", "secret_key": "root"}},
		{name: "no password", body: map[string]string{"username": "a", "secret_key": "root"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.doJSON(http.MethodPost, "/api/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	creds := map[string]string{"username": "a", "password": "p", "secret_key": "root"}
	rec := env.doJSON(http.MethodPost, "/api/register", creds)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/login", creds)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp["role"])

	ck := sessionCookie(t, rec)
	assert.True(t, ck.HttpOnly)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.loginAdmin(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "wrong password", body: map[string]string{"username": "admin", "password": "nope"}},
		{name: "unknown user", body: map[string]string{"username": "ghost", "password": "hunter2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.doJSON(http.MethodPost, "/api/login", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ck := env.loginAdmin(t)

	rec := env.doJSON(http.MethodGet, "/api/logout", nil, ck)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// the session is gone server-side, not just on the client
	rec = env.doJSON(http.MethodGet, "/api/products/whatever", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_WithoutSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.doJSON(http.MethodGet, "/api/logout", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}
