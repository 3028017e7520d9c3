package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	httpmiddleware "github.com/serenova-spa/recommend-platform/internal/http/middleware"
	"github.com/serenova-spa/recommend-platform/internal/questionnaire"
	"github.com/serenova-spa/recommend-platform/internal/webchat"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger               *logging.Logger
	Catalog              catalog.Catalog
	QuestionnaireHandler *questionnaire.Handler
	ChatHandler          *webchat.Handler
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string

	// Requests/sec and burst for the submission-heavy routes; zero
	// disables rate limiting.
	SubmitRateLimit float64
	SubmitBurst     int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	r.Get("/catalog", handleCatalog(cfg.Catalog))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if qh := cfg.QuestionnaireHandler; qh != nil {
		r.Route("/questionnaire/sessions", func(r chi.Router) {
			if cfg.SubmitRateLimit > 0 {
				r.Use(httpmiddleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitBurst))
			}
			r.Post("/", qh.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", qh.GetSession)
				r.Post("/select", qh.Select)
				r.Post("/next", qh.Next)
				r.Post("/back", qh.Back)
				r.Post("/jump", qh.Jump)
				r.Post("/reset", qh.Reset)
				r.Get("/recommendation", qh.GetRecommendation)
			})
		})
	}

	if ch := cfg.ChatHandler; ch != nil {
		r.Route("/chat", func(r chi.Router) {
			r.Post("/detect", ch.HandleDetect)
			r.Get("/ws", ch.HandleWebSocket)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleCatalog serves the full service catalog for widget rendering.
func handleCatalog(entries catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"services": entries})
	}
}
