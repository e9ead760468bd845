package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/webhook"
)

// RecordUpdate is one event application against the internal system of
// record. The receiver must treat a repeated event_id as a no-op; that
// contract is what makes webhook redelivery safe end to end.
type RecordUpdate struct {
	EventID string          `json:"event_id"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

// RecordClient posts record updates to the internal record API.
type RecordClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRecordClient(baseURL string) *RecordClient {
	return &RecordClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// UpdateRecord applies update downstream. Network failures and 5xx responses
// come back transient so the processor redelivers; any other non-2xx is a
// terminal failure on our side of the contract.
func (c *RecordClient) UpdateRecord(ctx context.Context, update RecordUpdate) error {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("UpdateRecord: marshal: %w", err)
	}

	url := c.baseURL + "/internal/records"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("UpdateRecord: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return webhook.Transient(fmt.Errorf("UpdateRecord: send: %w", err))
	}
	defer resp.Body.Close()

	log.Info("record update sent",
		"event_id", update.EventID,
		"kind", update.Kind,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return webhook.Transient(fmt.Errorf("UpdateRecord: record API status %d", resp.StatusCode))
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("UpdateRecord: record API rejected event %s: status %d: %s",
			update.EventID, resp.StatusCode, string(respBody))
	}
}
