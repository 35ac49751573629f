package httpapi

import (
	"net/http"
	"testing"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.loginAs(t, domain.RoleAdmin)
	labToken := env.loginAs(t, domain.RoleLab)

	resp := env.do(t, http.MethodGet, "/api/v1/users", labToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/v1/users", adminToken, map[string]string{
		"email":     "New.Manager@Example.com",
		"full_name": "New Manager",
		"role":      "manager",
		"password":  "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created service.UserView
	decodeEnvelope(t, resp, &created)
	assert.Equal(t, "new.manager@example.com", created.Email)
	assert.Equal(t, domain.RoleManager, created.Role)
	assert.True(t, created.Active)

	resp = env.do(t, http.MethodGet, "/api/v1/users?role=manager", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list service.ListUsersResponse
	decodeEnvelope(t, resp, &list)
	assert.Equal(t, 1, list.Total)

	resp = env.do(t, http.MethodPut, "/api/v1/users/"+created.UserID+"/status", adminToken,
		map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	active := false
	resp = env.do(t, http.MethodGet, "/api/v1/users?active=false", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeEnvelope(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, active, list.Items[0].Active)
}

func TestUsers_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.loginAs(t, domain.RoleAdmin)

	cases := []map[string]string{
		{"email": "not-an-email", "role": "lab", "password": "x"},
		{"email": "a@b.com", "role": "superuser", "password": "x"},
		{"email": "a@b.com", "role": "lab"},
	}
	for _, body := range cases {
		resp := env.do(t, http.MethodPost, "/api/v1/users", adminToken, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestLabs_CreateAndDetail(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.loginAs(t, domain.RoleAdmin)
	labToken := env.loginAs(t, domain.RoleLab)

	resp := env.do(t, http.MethodPost, "/api/v1/labs", labToken,
		map[string]string{"name": "Central Lab"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/v1/labs", adminToken,
		map[string]string{"name": "Central Lab", "location": "Building A"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var lab domain.Lab
	decodeEnvelope(t, resp, &lab)
	assert.Equal(t, "Central Lab", lab.Name)
	assert.True(t, lab.Active)
	assert.Equal(t, "u-admin", lab.CreatedBy)

	// 该实验室采集一个样本后详情计数应为 1
	resp = env.do(t, http.MethodPost, "/api/v1/samples", labToken, map[string]string{
		"patient_name": "Alice Wu",
		"sample_id":    "DNA-123456-001",
		"lab_id":       lab.LabID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/v1/labs/"+lab.LabID, labToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail service.LabDetail
	decodeEnvelope(t, resp, &detail)
	assert.Equal(t, 1, detail.SamplesCollected)

	resp = env.do(t, http.MethodPut, "/api/v1/labs/"+lab.LabID+"/status", adminToken,
		map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/v1/labs?active=true", labToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var labs []*domain.Lab
	decodeEnvelope(t, resp, &labs)
	assert.Empty(t, labs)
}
