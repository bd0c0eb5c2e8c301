package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/AobaIwaki123/url-to-csv/internal/agent"
	"github.com/AobaIwaki123/url-to-csv/internal/capture"
)

func registerCaptureHandlers(api huma.API, svc Service) {
	type statusOutput struct {
		Body agent.Status
	}

	huma.Register(api, huma.Operation{
		OperationID: "start-capture",
		Method:      http.MethodPost,
		Path:        "/api/v1/capture/start",
		Summary:     "Start collecting image requests",
		Tags:        []string{"Capture"},
	}, func(ctx context.Context, input *struct{}) (*statusOutput, error) {
		out := &statusOutput{}
		out.Body = svc.StartCapture(ctx)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "stop-capture",
		Method:      http.MethodPost,
		Path:        "/api/v1/capture/stop",
		Summary:     "Stop collecting image requests",
		Tags:        []string{"Capture"},
	}, func(ctx context.Context, input *struct{}) (*statusOutput, error) {
		out := &statusOutput{}
		out.Body = svc.StopCapture(ctx)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset-capture",
		Method:      http.MethodPost,
		Path:        "/api/v1/capture/reset",
		Summary:     "Discard all captured rows",
		Tags:        []string{"Capture"},
	}, func(ctx context.Context, input *struct{}) (*statusOutput, error) {
		out := &statusOutput{}
		out.Body = svc.ResetCapture(ctx)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get panel status",
		Tags:        []string{"Capture"},
	}, func(ctx context.Context, input *struct{}) (*statusOutput, error) {
		out := &statusOutput{}
		out.Body = svc.Status(ctx)
		return out, nil
	})

	type rowsOutput struct {
		Body []capture.Row
	}
	huma.Register(api, huma.Operation{
		OperationID: "list-rows",
		Method:      http.MethodGet,
		Path:        "/api/v1/rows",
		Summary:     "List captured rows in capture order",
		Tags:        []string{"Capture"},
	}, func(ctx context.Context, input *struct{}) (*rowsOutput, error) {
		out := &rowsOutput{}
		out.Body = svc.Rows(ctx)
		return out, nil
	})

	type previewOutput struct {
		Body struct {
			CSV  string `json:"csv"`
			Rows int    `json:"rows"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "preview-csv",
		Method:      http.MethodGet,
		Path:        "/api/v1/csv/preview",
		Summary:     "Render the captured rows as CSV without writing a file",
		Tags:        []string{"Export"},
	}, func(ctx context.Context, input *struct{}) (*previewOutput, error) {
		csvText, rows := svc.PreviewCSV(ctx)
		out := &previewOutput{}
		out.Body.CSV = csvText
		out.Body.Rows = rows
		return out, nil
	})
}
