package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

const maxRequestBodySize = 1 << 20

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response body is JSON encoded by the server
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to encode response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		safeWrite(w, http.StatusInternalServerError, []byte(`{"status":"error","message":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type config struct {
	ghSecret    types.GitHubWebhookSecret
	ghToken     types.GitHubToken
	corsOrigins []string
}

type Option func(*config)

func WithGitHubSecret(secret types.GitHubWebhookSecret) Option {
	return func(cfg *config) {
		cfg.ghSecret = secret
	}
}

// WithGitHubToken enables the push webhook. The token is used as the clone
// credential of repositories announced by GitHub.
func WithGitHubToken(token types.GitHubToken) Option {
	return func(cfg *config) {
		cfg.ghToken = token
	}
}

// WithCORSOrigins allows browser clients from origins to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(cfg *config) {
		cfg.corsOrigins = append(cfg.corsOrigins, origins...)
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	if len(cfg.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/send_query", handleSendQuery(uc))
		r.Post("/push_notif", handlePushNotification(uc))
		r.Post("/get_notif", handleGetNotifications(uc))
		r.Post("/del_notif", handleDeleteNotification(uc))
	})

	if cfg.ghToken != "" {
		r.Route("/webhook", func(r chi.Router) {
			r.Post("/github", handleGitHubWebhook(uc, cfg.ghSecret, cfg.ghToken))
		})
	}

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
