package service

import (
	"context"
	"time"

	"sampletrack/internal/config"
	"sampletrack/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// TransitionEvent 状态流转事件（POST 到配置的 webhook）
type TransitionEvent struct {
	SampleID   string        `json:"sample_id"`
	SampleCode string        `json:"sample_code"`
	Status     domain.Status `json:"status"`
	Note       string        `json:"note,omitempty"`
	ActorID    string        `json:"actor_id,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// WebhookNotifier pushes committed transitions to a downstream system
// (courier dispatch, LIMS). Disabled when no URL is configured.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookNotifier 创建 webhook 通知器
func NewWebhookNotifier(cfg config.WebhookConfig, logger *zap.Logger) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{client: client, url: cfg.URL, logger: logger}
}

// Enabled reports whether a webhook URL is configured. Nil-safe.
func (n *WebhookNotifier) Enabled() bool {
	return n != nil && n.url != ""
}

// NotifyTransition delivers one event. Failures are logged, never returned:
// the transition is already committed and must not appear to fail.
func (n *WebhookNotifier) NotifyTransition(ctx context.Context, ev TransitionEvent) {
	if !n.Enabled() {
		return
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post(n.url)
	if err != nil {
		n.logger.Error("Transition webhook delivery failed",
			zap.String("sample_id", ev.SampleID),
			zap.String("status", string(ev.Status)),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		n.logger.Warn("Transition webhook rejected",
			zap.String("sample_id", ev.SampleID),
			zap.Int("http_status", resp.StatusCode()),
		)
		return
	}
	n.logger.Debug("Transition webhook delivered",
		zap.String("sample_id", ev.SampleID),
		zap.String("status", string(ev.Status)),
	)
}
