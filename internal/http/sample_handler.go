package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/service"

	"go.uber.org/zap"
)

// SampleHandler 样本相关路由
type SampleHandler struct {
	samples *service.SampleService
	auth    *service.AuthService
	logger  *zap.Logger
}

func NewSampleHandler(samples *service.SampleService, auth *service.AuthService, logger *zap.Logger) *SampleHandler {
	return &SampleHandler{samples: samples, auth: auth, logger: logger}
}

// Collection handles /api/v1/samples (GET list, POST create).
func (h *SampleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Subtree handles /api/v1/samples/{stats|export|{id}[/status|/history]}.
func (h *SampleHandler) Subtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/samples/")
	switch path {
	case "stats":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.stats(w, r)
		return
	case "export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.export(w, r)
		return
	}

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
		h.updateStatus(w, r, id)
	case len(parts) == 2 && parts[1] == "history" && r.Method == http.MethodGet:
		h.listHistory(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *SampleHandler) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	q := r.URL.Query()
	resp, err := h.samples.ListSamples(r.Context(), service.ListSamplesRequest{
		Status:      q.Get("status"),
		LabID:       q.Get("lab_id"),
		CollectedBy: q.Get("collected_by"),
		Search:      q.Get("search"),
		Page:        parseInt(q.Get("page"), 1),
		Size:        parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *SampleHandler) create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanRegisterSamples) {
		return
	}

	var req service.CreateSampleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	req.CollectedBy = sess.UserID

	sample, err := h.samples.CreateSample(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(sample))
}

func (h *SampleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	detail, err := h.samples.GetSampleByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

type updateStatusBody struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *SampleHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	sess, ok := requireSession(w, r, h.auth)
	if !ok {
		return
	}
	if !requireRole(w, sess, domain.Role.CanTransitionSamples) {
		return
	}

	var body updateStatusBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	updated, err := h.samples.UpdateSampleStatus(r.Context(), service.UpdateStatusRequest{
		SampleID: id,
		Status:   body.Status,
		Note:     body.Note,
		ActorID:  sess.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}

func (h *SampleHandler) listHistory(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	entries, err := h.samples.ListHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(entries))
}

func (h *SampleHandler) stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	stats, err := h.samples.GetSampleStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

// exportPageSize 导出上限（一次取全量）
const exportPageSize = 10000

func (h *SampleHandler) export(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.auth); !ok {
		return
	}
	q := r.URL.Query()
	resp, err := h.samples.ListSamples(r.Context(), service.ListSamplesRequest{
		Status:      q.Get("status"),
		LabID:       q.Get("lab_id"),
		CollectedBy: q.Get("collected_by"),
		Search:      q.Get("search"),
		Page:        1,
		Size:        exportPageSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := service.BuildSamplesWorkbook(resp.Items)
	if err != nil {
		h.logger.Error("Failed to build samples workbook", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("export failed"))
		return
	}

	filename := fmt.Sprintf("samples-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
