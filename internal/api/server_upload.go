package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/AobaIwaki123/url-to-csv/internal/agent"
	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

func registerUploadHandlers(api huma.API, svc Service) {
	type exportOutput struct {
		Body agent.ExportResult
	}
	huma.Register(api, huma.Operation{
		OperationID: "export-csv",
		Method:      http.MethodPost,
		Path:        "/api/v1/csv/export",
		Summary:     "Write the captured rows to a timestamped CSV file",
		Tags:        []string{"Export"},
	}, func(ctx context.Context, input *struct{}) (*exportOutput, error) {
		res, err := svc.ExportCSV(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		out := &exportOutput{}
		out.Body = res
		return out, nil
	})

	type resultOutput struct {
		Body uploader.Result
	}
	huma.Register(api, huma.Operation{
		OperationID: "upload-csv",
		Method:      http.MethodPost,
		Path:        "/api/v1/csv/upload",
		Summary:     "Upload the captured rows as CSV to the backend",
		Tags:        []string{"Export"},
	}, func(ctx context.Context, input *struct{}) (*resultOutput, error) {
		res, err := svc.Upload(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		out := &resultOutput{}
		out.Body = res
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "send-webhook",
		Method:      http.MethodPost,
		Path:        "/api/v1/csv/webhook",
		Summary:     "Send the captured rows to the spreadsheet webhook",
		Tags:        []string{"Export"},
	}, func(ctx context.Context, input *struct{}) (*resultOutput, error) {
		res, err := svc.SendWebhook(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		out := &resultOutput{}
		out.Body = res
		return out, nil
	})
}
