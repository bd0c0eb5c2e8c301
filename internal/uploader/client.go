// Package uploader performs the login and upload calls against the ingest
// backend. Every call is a single attempt: retrying is the caller's decision.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AobaIwaki123/url-to-csv/internal/capture"
	"github.com/AobaIwaki123/url-to-csv/internal/session"
)

// Client talks to the ingest backend and keeps the session token current.
type Client struct {
	httpClient *http.Client
	tokens     *session.TokenStore
}

// NewClient creates a Client. A nil httpClient falls back to
// http.DefaultClient; no timeout is imposed beyond the transport's own.
func NewClient(httpClient *http.Client, tokens *session.TokenStore) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, tokens: tokens}
}

// Login exchanges credentials for a bearer token at {backendURL}/auth/login.
// On success the token is stored for later uploads; on failure nothing is
// stored and the server's error code and message are passed through.
func (c *Client) Login(ctx context.Context, backendURL, username, password string) Result {
	if backendURL == "" {
		return failure(CodeBackendURLNotSet, "backend URL is not configured")
	}

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return failure(CodeLoginFailed, err.Error())
	}

	resp, err := c.post(ctx, strings.TrimRight(backendURL, "/")+"/auth/login", "application/json", "", body)
	if err != nil {
		return failure(CodeRequestFailed, err.Error())
	}

	if resp.status < 200 || resp.status >= 300 {
		code, message := resp.errorFields(CodeLoginFailed, "login failed")
		slog.Warn("login rejected", "status", resp.status, "code", code)
		return Result{Status: resp.status, Code: code, Message: message}
	}

	token, _ := resp.body["token"].(string)
	if token == "" {
		return Result{Status: resp.status, Code: CodeLoginFailed, Message: "login response carried no token"}
	}
	c.tokens.Set(token)

	message, _ := resp.body["message"].(string)
	if message == "" {
		message = "login succeeded"
	}
	slog.Info("login succeeded", "backend", backendURL)
	return Result{OK: true, Status: resp.status, Message: message}
}

// Upload sends CSV text to {backendURL}/upload with the stored bearer token.
// It fails fast with not_logged_in before issuing any network call when no
// token is held.
func (c *Client) Upload(ctx context.Context, backendURL, csvText string) Result {
	token, ok := c.tokens.Get()
	if !ok {
		return failure(CodeNotLoggedIn, "log in before uploading")
	}
	if backendURL == "" {
		return failure(CodeBackendURLNotSet, "backend URL is not configured")
	}

	resp, err := c.post(ctx, strings.TrimRight(backendURL, "/")+"/upload", "text/csv", token, []byte(csvText))
	if err != nil {
		return failure(CodeRequestFailed, err.Error())
	}

	if resp.status < 200 || resp.status >= 300 {
		code, message := resp.errorFields(CodeRequestFailed, fmt.Sprintf("upload failed with HTTP %d", resp.status))
		slog.Warn("upload rejected", "status", resp.status, "code", code)
		return Result{Status: resp.status, Code: code, Message: message}
	}

	slog.Info("upload accepted", "backend", backendURL, "bytes", len(csvText))
	return Result{OK: true, Status: resp.status, Message: "upload complete", Data: resp.body}
}

// SendWebhook posts rows as JSON to a legacy spreadsheet webhook. No auth.
func (c *Client) SendWebhook(ctx context.Context, webhookURL string, rows []capture.Row) Result {
	if webhookURL == "" {
		return failure(CodeWebhookURLNotSet, "webhook URL is not configured")
	}

	pairs := make([][2]string, len(rows))
	for i, row := range rows {
		pairs[i] = [2]string{row.Name, row.URL}
	}
	body, err := json.Marshal(map[string]any{"rows": pairs})
	if err != nil {
		return failure(CodeRequestFailed, err.Error())
	}

	resp, err := c.post(ctx, webhookURL, "application/json", "", body)
	if err != nil {
		return failure(CodeRequestFailed, err.Error())
	}
	if resp.status < 200 || resp.status >= 300 {
		code, message := resp.errorFields(CodeRequestFailed, fmt.Sprintf("webhook failed with HTTP %d", resp.status))
		return Result{Status: resp.status, Code: code, Message: message}
	}
	return Result{OK: true, Status: resp.status, Message: "webhook accepted", Data: resp.body}
}

// Logout clears the stored token.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// Authenticated reports whether a token is currently held.
func (c *Client) Authenticated() bool {
	_, ok := c.tokens.Get()
	return ok
}

type response struct {
	status int
	body   map[string]any
}

// errorFields extracts the server-provided error code and message, falling
// back to the given defaults when the body carries neither.
func (r response) errorFields(defaultCode, defaultMessage string) (string, string) {
	code, _ := r.body["error"].(string)
	if code == "" {
		code = defaultCode
	}
	message, _ := r.body["message"].(string)
	if message == "" {
		if detail, ok := r.body["detail"].(string); ok {
			message = detail
		} else {
			message = defaultMessage
		}
	}
	return code, message
}

func (c *Client) post(ctx context.Context, url, contentType, bearer string, body []byte) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Content-Type", contentType)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}

	parsed := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			slog.Debug("non-JSON backend response", "status", resp.StatusCode, "bytes", len(data))
			parsed = map[string]any{"raw": string(data)}
		}
	}
	return response{status: resp.StatusCode, body: parsed}, nil
}
