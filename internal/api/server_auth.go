package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/AobaIwaki123/url-to-csv/internal/uploader"
)

func registerAuthHandlers(api huma.API, svc Service) {
	type loginInput struct {
		Body struct {
			Username string `json:"username" doc:"Backend account name"`
			Password string `json:"password" doc:"Backend account password"`
		}
	}
	type resultOutput struct {
		Body uploader.Result
	}

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Exchange credentials for an upload session token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *loginInput) (*resultOutput, error) {
		out := &resultOutput{}
		out.Body = svc.Login(ctx, input.Body.Username, input.Body.Password)
		return out, nil
	})

	type logoutOutput struct {
		Body struct {
			OK bool `json:"ok"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Clear the upload session token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *struct{}) (*logoutOutput, error) {
		svc.Logout(ctx)
		out := &logoutOutput{}
		out.Body.OK = true
		return out, nil
	})
}
