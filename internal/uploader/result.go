package uploader

// Machine-readable failure codes surfaced to the panel operations.
const (
	CodeBackendURLNotSet = "backend_url_not_set"
	CodeNotLoggedIn      = "not_logged_in"
	CodeLoginFailed      = "login_failed"
	CodeRequestFailed    = "request_failed"
	CodeWebhookURLNotSet = "webhook_url_not_set"
)

// Result is the outcome of a login, upload, or webhook call. Failures carry a
// machine-readable code and a human-readable message; upload successes carry
// the parsed backend response body.
type Result struct {
	OK      bool           `json:"ok"`
	Status  int            `json:"status,omitempty"`
	Code    string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func failure(code, message string) Result {
	return Result{Code: code, Message: message}
}
