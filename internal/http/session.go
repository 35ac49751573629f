package httpapi

import (
	"net/http"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"
)

// requireSession resolves the bearer token into a SessionContext or writes
// the token-expired envelope (code 60401 + HTTP 401) and returns false.
func requireSession(w http.ResponseWriter, r *http.Request, auth *service.AuthService) (*service.SessionContext, bool) {
	sess, err := auth.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Result[any]{
			Code:    ResultTokenExpired,
			Type:    "error",
			Message: "session expired or missing",
			Result:  nil,
		})
		return nil, false
	}
	return sess, true
}

// requireRole gates an operation on the session's role; writes 403 on refusal.
func requireRole(w http.ResponseWriter, sess *service.SessionContext, allowed func(domain.Role) bool) bool {
	if !allowed(sess.Role) {
		writeJSON(w, http.StatusForbidden, Fail("role not permitted for this operation"))
		return false
	}
	return true
}
