package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_LoginMeLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.loginAs(t, domain.RoleManager)

	resp := env.do(t, http.MethodGet, "/auth/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess service.SessionContext
	code := decodeEnvelope(t, resp, &sess)
	assert.Equal(t, ResultSuccess, code)
	assert.Equal(t, "u-manager", sess.UserID)
	assert.Equal(t, domain.RoleManager, sess.Role)

	resp = env.do(t, http.MethodPost, "/auth/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/auth/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	code = decodeEnvelope(t, resp, nil)
	assert.Equal(t, ResultTokenExpired, code)
}

func TestAuth_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, domain.RoleLab) // seeds lab@example.com / secret

	body, _ := json.Marshal(map[string]string{"email": "lab@example.com", "password": "wrong"})
	resp, err := http.Post(env.server.URL+"/auth/api/v1/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var envelope struct {
		Code int    `json:"code"`
		Type string `json:"type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, ResultError, envelope.Code)
	assert.Equal(t, "error", envelope.Type)
}

func TestAuth_MethodGuards(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/auth/api/v1/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/auth/api/v1/me", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
