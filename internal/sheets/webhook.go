package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WebhookAppender posts batch appends as JSON to a spreadsheet webhook.
type WebhookAppender struct {
	httpClient *http.Client
	url        string
	sheetRange string
}

// NewWebhookAppender creates an appender for the given endpoint. A nil
// httpClient falls back to http.DefaultClient; sheetRange defaults to
// "Sheet1!A1".
func NewWebhookAppender(httpClient *http.Client, url, sheetRange string) *WebhookAppender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if sheetRange == "" {
		sheetRange = "Sheet1!A1"
	}
	return &WebhookAppender{httpClient: httpClient, url: url, sheetRange: sheetRange}
}

type appendRequest struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Append sends all values in one call. No retries; the caller decides.
func (a *WebhookAppender) Append(ctx context.Context, values [][]string) error {
	body, err := json.Marshal(appendRequest{Range: a.sheetRange, Values: values})
	if err != nil {
		return fmt.Errorf("sheets: marshal append: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets: append: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sheets: append rejected: HTTP %d", resp.StatusCode)
	}
	return nil
}
