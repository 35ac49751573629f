package httpapi

import (
	"net/http"
	"strings"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"

	"go.uber.org/zap"
)

// LabHandler 采集实验室路由
type LabHandler struct {
	labs   *service.LabService
	auth   *service.AuthService
	logger *zap.Logger
}

func NewLabHandler(labs *service.LabService, auth *service.AuthService, logger *zap.Logger) *LabHandler {
	return &LabHandler{labs: labs, auth: auth, logger: logger}
}

// Collection handles /api/v1/labs (GET list, POST create).
func (h *LabHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Subtree handles /api/v1/labs/{id} and /api/v1/labs/{id}/status.
func (h *LabHandler) Subtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/labs/")
	parts := strings.Split(path, "/")
	id := parts[0]
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, id)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut:
		h.setActive(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *LabHandler) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	labs, err := h.labs.ListLabs(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(labs))
}

func (h *LabHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	detail, err := h.labs.GetLab(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *LabHandler) create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanManageAccounts) {
		return
	}

	var req service.CreateLabRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	req.CreatedBy = sess.UserID

	lab, err := h.labs.CreateLab(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(lab))
}

type setActiveBody struct {
	Active bool `json:"active"`
}

func (h *LabHandler) setActive(w http.ResponseWriter, r *http.Request, id string) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanManageAccounts) {
		return
	}

	var body setActiveBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if err := h.labs.SetLabActive(r.Context(), id, body.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
