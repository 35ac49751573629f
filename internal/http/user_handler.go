package httpapi

import (
	"net/http"
	"strings"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"

	"go.uber.org/zap"
)

// UserHandler 账号管理路由（admin 专用）
type UserHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, auth: auth, logger: logger}
}

// Collection handles /api/v1/users (GET list, POST create).
func (h *UserHandler) Collection(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanManageAccounts) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Subtree handles /api/v1/users/{id}/status.
func (h *UserHandler) Subtree(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanManageAccounts) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	parts := strings.Split(path, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] == "status" && r.Method == http.MethodPut {
		h.setActive(w, r, parts[0])
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.ListUsersRequest{
		Role: q.Get("role"),
		Page: parseInt(q.Get("page"), 1),
		Size: parseInt(q.Get("size"), 20),
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		req.Active = &active
	}

	resp, err := h.users.ListUsers(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(user))
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, id string) {
	var body setActiveBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.users.SetUserActive(r.Context(), id, body.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
