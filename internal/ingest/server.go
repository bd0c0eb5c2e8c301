// Package ingest serves the upload backend: login, authenticated CSV upload
// into object storage, and the async append-job trigger.
package ingest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/AobaIwaki123/url-to-csv/internal/authn"
	"github.com/AobaIwaki123/url-to-csv/internal/jobtrigger"
	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
)

// Fixed per-process rate limit window.
const (
	rateLimitRequests = 120
	rateLimitWindow   = 60 * time.Second
)

// Server bundles the handlers' dependencies.
type Server struct {
	issuer      *authn.Issuer
	credentials authn.CredentialChecker
	expiresIn   string
	store       objstore.Store
	trigger     jobtrigger.Trigger
	maxBodyByte int64
}

// NewServer creates the handler bundle. expiresIn is the human-readable token
// lifetime echoed in login responses (e.g. "1h").
func NewServer(issuer *authn.Issuer, credentials authn.CredentialChecker, expiresIn string, store objstore.Store, trigger jobtrigger.Trigger) *Server {
	return &Server{
		issuer:      issuer,
		credentials: credentials,
		expiresIn:   expiresIn,
		store:       store,
		trigger:     trigger,
		maxBodyByte: 20 << 20,
	}
}

// Router assembles the chi router with the full middleware stack.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  originAllower(allowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Use(httprate.LimitAll(rateLimitRequests, rateLimitWindow))

	router.Get("/healthz", s.handleHealthz)
	router.Post("/auth/login", s.handleLogin)
	router.With(s.bearerAuth).Post("/upload", s.handleUpload)

	return router
}

// originAllower reproduces the prefix-matching allow-list: an empty list or a
// "*" entry allows every origin.
func originAllower(allowed []string) func(r *http.Request, origin string) bool {
	return func(r *http.Request, origin string) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, allow := range allowed {
			if allow == "*" || strings.HasPrefix(origin, allow) {
				return true
			}
		}
		return false
	}
}
