package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	goccy_json "github.com/goccy/go-json"
	"go.uber.org/atomic"

	"github.com/valdezmx/wms-traceability/internal/traceability/usecase"
)

// publisher delivers events to the configured subscriber endpoint over HTTP.
// Delivery is at-most-once: a failed POST is reported to the caller and
// never retried here.
type publisher struct {
	endpoint  string
	client    *http.Client
	logger    *slog.Logger
	delivered atomic.Int64
	failed    atomic.Int64
}

var _ usecase.WebhookPublisher = (*publisher)(nil)

func NewPublisher(
	endpoint string,
	timeout time.Duration,
	logger *slog.Logger,
) *publisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &publisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type envelope struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

func (p *publisher) Publish(ctx context.Context, eventName string, payload any) error {
	logger := p.logger.With(slog.Any("infra", "webhook"), slog.String("event", eventName))

	body, err := goccy_json.Marshal(envelope{
		Event:     eventName,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		p.failed.Inc()
		logger.Error("failed to marshal event", slog.Any("error", err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		p.failed.Inc()
		logger.Error("failed to build request", slog.Any("error", err))
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", eventName)

	resp, err := p.client.Do(req)
	if err != nil {
		p.failed.Inc()
		logger.Error("failed to http post", slog.Any("error", err))
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.failed.Inc()
		logger.Error("subscriber rejected event", slog.Int("status_code", resp.StatusCode))
		return fmt.Errorf("subscriber responded %d", resp.StatusCode)
	}

	p.delivered.Inc()
	return nil
}

// Delivered reports how many events the subscriber accepted since start.
func (p *publisher) Delivered() int64 { return p.delivered.Load() }

// Failed reports how many deliveries were lost since start.
func (p *publisher) Failed() int64 { return p.failed.Load() }
