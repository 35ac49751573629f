package service

import (
	"context"
	"strings"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LabService 采集实验室服务
type LabService struct {
	labs   repository.LabsRepository
	logger *zap.Logger
}

// NewLabService 创建实验室服务
func NewLabService(labs repository.LabsRepository, logger *zap.Logger) *LabService {
	return &LabService{labs: labs, logger: logger}
}

// LabDetail 实验室详情（附已采集样本数）
type LabDetail struct {
	*domain.Lab
	SamplesCollected int `json:"samplesCollected"`
}

// ListLabs 按名称排序返回实验室
func (s *LabService) ListLabs(ctx context.Context, activeOnly bool) ([]*domain.Lab, error) {
	return s.labs.ListLabs(ctx, activeOnly)
}

// GetLab 获取实验室详情，附该实验室采集的样本数
func (s *LabService) GetLab(ctx context.Context, labID string) (*LabDetail, error) {
	lab, err := s.labs.GetLab(ctx, labID)
	if err != nil {
		return nil, err
	}
	count, err := s.labs.CountSamplesByLab(ctx, labID)
	if err != nil {
		return nil, err
	}
	return &LabDetail{Lab: lab, SamplesCollected: count}, nil
}

// CreateLabRequest 创建实验室请求
type CreateLabRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	CreatedBy string `json:"-"` // 取自会话
}

// CreateLab 创建实验室（默认启用）
func (s *LabService) CreateLab(ctx context.Context, req CreateLabRequest) (*domain.Lab, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, domain.Validationf("name is required")
	}

	lab := &domain.Lab{
		LabID:     uuid.NewString(),
		Name:      req.Name,
		Location:  strings.TrimSpace(req.Location),
		Active:    true,
		CreatedBy: req.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.labs.CreateLab(ctx, lab); err != nil {
		return nil, err
	}

	s.logger.Info("Lab created", zap.String("lab_id", lab.LabID), zap.String("name", lab.Name))
	return lab, nil
}

// SetLabActive 启用/停用实验室
func (s *LabService) SetLabActive(ctx context.Context, labID string, active bool) error {
	if err := s.labs.SetLabActive(ctx, labID, active); err != nil {
		return err
	}
	s.logger.Info("Lab status updated", zap.String("lab_id", labID), zap.Bool("active", active))
	return nil
}
