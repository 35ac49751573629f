package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SampleService 样本生命周期服务
type SampleService struct {
	samples  repository.SamplesRepository
	history  repository.HistoryRepository
	notifier *WebhookNotifier
	logger   *zap.Logger
}

// NewSampleService 创建样本服务
func NewSampleService(samples repository.SamplesRepository, history repository.HistoryRepository, notifier *WebhookNotifier, logger *zap.Logger) *SampleService {
	return &SampleService{
		samples:  samples,
		history:  history,
		notifier: notifier,
		logger:   logger,
	}
}

// sampleCodePattern 样本编码格式 DNA-NNNNNN-NNN(N)
var sampleCodePattern = regexp.MustCompile(`^DNA-\d{6}-\d{3,4}$`)

// generateSampleCode builds a candidate code from the low-order six digits of
// the millisecond clock plus a zero-padded random suffix. Uniqueness is
// probabilistic and is always confirmed against the store before acceptance.
func generateSampleCode() string {
	ts := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("DNA-%06d-%03d", ts, rand.Intn(1000))
}

// maxCodeAttempts 编码碰撞重试上限
const maxCodeAttempts = 5

// CreateSampleRequest 注册样本请求
type CreateSampleRequest struct {
	PatientName string `json:"patient_name"`
	SampleID    string `json:"sample_id"` // 可留空，服务端生成
	Age         *int   `json:"age"`
	Gender      string `json:"gender"`
	LabID       string `json:"lab_id"`
	QRCodeURL   string `json:"qr_code_url"`
	CollectedBy string `json:"-"` // 取自会话，不信任请求体
}

// CreateSample registers a new sample with status 'new' and seeds its ledger
// with one 'new' entry, both in one logical creation event.
func (s *SampleService) CreateSample(ctx context.Context, req CreateSampleRequest) (*domain.Sample, error) {
	req.PatientName = strings.TrimSpace(req.PatientName)
	if req.PatientName == "" {
		return nil, domain.Validationf("patient_name is required")
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		return nil, domain.Validationf("age out of range")
	}

	code := strings.TrimSpace(req.SampleID)
	if code != "" {
		if !sampleCodePattern.MatchString(code) {
			return nil, domain.Validationf("sample_id %q does not match DNA-NNNNNN-NNN", code)
		}
		exists, err := s.samples.SampleCodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Validationf("sample_id %q already exists", code)
		}
	} else {
		var err error
		code, err = s.uniqueSampleCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sample := &domain.Sample{
		ID:          uuid.NewString(),
		SampleID:    code,
		PatientName: req.PatientName,
		Age:         req.Age,
		Gender:      req.Gender,
		Status:      domain.StatusNew,
		CollectedBy: req.CollectedBy,
		LabID:       req.LabID,
		QRCodeURL:   req.QRCodeURL,
		CreatedAt:   now,
	}
	seed := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		SampleID:  sample.ID,
		Status:    domain.StatusNew,
		CreatedBy: req.CollectedBy,
		CreatedAt: now,
	}

	if err := s.samples.CreateSample(ctx, sample, seed); err != nil {
		return nil, err
	}

	s.logger.Info("Sample registered",
		zap.String("id", sample.ID),
		zap.String("sample_id", sample.SampleID),
		zap.String("collected_by", sample.CollectedBy),
	)
	return sample, nil
}

// uniqueSampleCode 生成并预检样本编码，碰撞时重试
func (s *SampleService) uniqueSampleCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := generateSampleCode()
		exists, err := s.samples.SampleCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.Storef(fmt.Errorf("gave up after %d attempts", maxCodeAttempts), "failed to generate unique sample_id")
}

// SampleWithHistory 样本详情（含完整账本）
type SampleWithHistory struct {
	Sample  *domain.Sample         `json:"sample"`
	History []*domain.HistoryEntry `json:"history"`
}

// GetSampleByID returns the sample with its full ledger, ascending by
// created_at. A status/ledger mismatch (rows written by the legacy two-step
// client) is repaired here by re-appending the missing entry; a failed
// repair surfaces as a consistency error so the caller retries the whole
// transition instead of trusting partial state.
func (s *SampleService) GetSampleByID(ctx context.Context, id string) (*SampleWithHistory, error) {
	sample, err := s.samples.GetSample(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 || entries[len(entries)-1].Status != sample.Status {
		repair := &domain.HistoryEntry{
			ID:        uuid.NewString(),
			SampleID:  sample.ID,
			Status:    sample.Status,
			Note:      "status reconciled from sample record",
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.history.AppendEntry(ctx, repair); err != nil {
			return nil, domain.Consistencyf("sample %s ledger out of sync, repair failed: %v", id, err)
		}
		s.logger.Warn("Repaired out-of-sync sample ledger",
			zap.String("id", sample.ID),
			zap.String("status", string(sample.Status)),
		)
		entries = append(entries, repair)
	}

	return &SampleWithHistory{Sample: sample, History: entries}, nil
}

// ListSamplesRequest 样本列表请求
type ListSamplesRequest struct {
	Status      string
	LabID       string
	CollectedBy string
	Search      string
	Page        int
	Size        int
}

// ListSamplesResponse 样本列表响应
type ListSamplesResponse struct {
	Items []*domain.Sample `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// ListSamples 批量查询样本（不加载账本），created_at 倒序
func (s *SampleService) ListSamples(ctx context.Context, req ListSamplesRequest) (*ListSamplesResponse, error) {
	filters := &repository.SampleFilters{
		LabID:       req.LabID,
		CollectedBy: req.CollectedBy,
		Search:      strings.TrimSpace(req.Search),
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filters.Status = status
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 {
		req.Size = 20
	}

	items, total, err := s.samples.ListSamples(ctx, filters, req.Page, req.Size)
	if err != nil {
		return nil, err
	}
	return &ListSamplesResponse{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// UpdateStatusRequest 状态流转请求
type UpdateStatusRequest struct {
	SampleID string // samples.id
	Status   string
	Note     string
	ActorID  string // 取自会话
}

// UpdateSampleStatus applies the atomic transition: update samples.status and
// append the matching ledger entry as one unit. Any status may be set from
// any other status, including re-setting the current one (still logged).
func (s *SampleService) UpdateSampleStatus(ctx context.Context, req UpdateStatusRequest) (*domain.Sample, error) {
	if req.ActorID == "" {
		return nil, domain.Validationf("actor_id is required")
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		SampleID:  req.SampleID,
		Status:    status,
		Note:      strings.TrimSpace(req.Note),
		CreatedBy: req.ActorID,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.samples.Transition(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sample status updated",
		zap.String("id", updated.ID),
		zap.String("sample_id", updated.SampleID),
		zap.String("status", string(status)),
		zap.String("actor_id", req.ActorID),
	)

	if s.notifier.Enabled() {
		ev := TransitionEvent{
			SampleID:   updated.ID,
			SampleCode: updated.SampleID,
			Status:     status,
			Note:       entry.Note,
			ActorID:    req.ActorID,
			OccurredAt: entry.CreatedAt,
		}
		// Fire and forget: delivery failure is logged inside the notifier
		// and never fails the committed transition.
		go s.notifier.NotifyTransition(context.Background(), ev)
	}

	return updated, nil
}

// GetSampleStats 按状态统计（每次按需重算，不缓存）
func (s *SampleService) GetSampleStats(ctx context.Context) (*domain.SampleStats, error) {
	counts, err := s.samples.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.SampleStats{
		New:       counts[domain.StatusNew],
		InTransit: counts[domain.StatusInTransit],
		Stored:    counts[domain.StatusStored],
		Processed: counts[domain.StatusProcessed],
		Archived:  counts[domain.StatusArchived],
	}
	stats.Total = stats.New + stats.InTransit + stats.Stored + stats.Processed + stats.Archived
	return stats, nil
}

// ListHistory 按 created_at 升序返回样本账本；样本不存在时返回 NotFound
func (s *SampleService) ListHistory(ctx context.Context, sampleID string) ([]*domain.HistoryEntry, error) {
	if _, err := s.samples.GetSample(ctx, sampleID); err != nil {
		return nil, err
	}
	return s.history.ListHistory(ctx, sampleID)
}
