package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"context-builder/internal/domain"

	"github.com/cenkalti/backoff/v5"
)

const (
	webhookAttempts = 3
	webhookWait     = 2 * time.Second
)

type statusWebhookRequest struct {
	Status int               `json:"status"`
	Data   statusWebhookData `json:"data"`
}

type statusWebhookData struct {
	APIDatasetID string `json:"api_dataset_id"`
	Status       int    `json:"status"`
}

// WebhookNotifier posts dataset status changes to the builder's webhook
type WebhookNotifier struct {
	targetURL  string
	httpClient *http.Client
	logger     domain.Logger
	wait       time.Duration
}

func NewWebhookNotifier(targetURL string, httpClient *http.Client, logger domain.Logger) *WebhookNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{
		targetURL:  targetURL,
		httpClient: httpClient,
		logger:     logger,
		wait:       webhookWait,
	}
}

// NotifyStatus delivers the status, retrying a fixed number of times
func (n *WebhookNotifier) NotifyStatus(ctx context.Context, datasetID string, status domain.DatasetStatus) error {
	n.logger.Info("Updating dataset status", "dataset_id", datasetID, "status", status.String())

	payload, err := json.Marshal(statusWebhookRequest{
		Status: int(status),
		Data:   statusWebhookData{APIDatasetID: datasetID, Status: int(status)},
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, n.post(ctx, payload)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(n.wait)),
		backoff.WithMaxTries(webhookAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			n.logger.Warn("Status webhook failed, retrying", "dataset_id", datasetID, "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		return fmt.Errorf("notify status webhook: %w", err)
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.targetURL, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
