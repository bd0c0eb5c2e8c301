package ingest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("response write failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	body := map[string]string{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	writeJSON(w, status, body)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_request",
			"message": "request body must be JSON credentials",
		})
		return
	}

	if !s.credentials.Verify(req.Username, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "invalid_credentials",
			"message": "username or password is incorrect",
		})
		return
	}

	token, err := s.issuer.Issue(req.Username, "user")
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login_failed", "could not issue token")
		return
	}

	slog.Info("login succeeded", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{
		"token":     token,
		"expiresIn": s.expiresIn,
		"message":   "login succeeded",
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Read one byte past the limit so an oversize body is rejected instead
	// of being stored with its tail cut off.
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyByte+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable_body", err.Error())
		return
	}
	if int64(len(body)) > s.maxBodyByte {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "csv body exceeds upload size limit")
		return
	}

	csvText := string(body)
	if strings.TrimSpace(csvText) == "" {
		writeError(w, http.StatusBadRequest, "empty_csv", "")
		return
	}

	now := time.Now().UTC()
	key := objstore.UploadKey(now)
	meta := objstore.Metadata{Source: "url-to-csv", UploadedAt: now}

	info, err := s.store.Put(r.Context(), key, body, meta)
	if err != nil {
		slog.Error("object store write failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "upload_failed", err.Error())
		return
	}

	execution, err := s.trigger.Run(r.Context())
	if err != nil {
		slog.Error("job trigger failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "upload_failed", err.Error())
		return
	}

	user := "unknown"
	if claims, ok := claimsFrom(r.Context()); ok {
		user = claims.Subject
	}
	slog.Info("upload stored", "key", key, "bytes", len(body), "user", user, "execution_id", execution.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"gcsUri":    info.URI,
		"execution": execution,
	})
}
