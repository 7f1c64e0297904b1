package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/meetprep/internal/ingest/alpha"
	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/storage"
)

// Settings are the defaults and bounds the handlers apply to requests.
type Settings struct {
	Competition      models.Competition
	Bodyweight       storage.WeightRange
	BodyweightTarget float64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    storage.Store
	tables   *prep.TableHolder
	alpha    *alpha.Provider
	settings Settings
	log      *slog.Logger
	router   chi.Router
	pages    *pages

	whois WhoIsClient
	now   func() time.Time
}

// New creates a new Server with all routes configured.
func New(store storage.Store, tables *prep.TableHolder, alphaProvider *alpha.Provider, settings Settings, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		tables:   tables,
		alpha:    alphaProvider,
		settings: settings,
		log:      log,
		router:   chi.NewRouter(),
		pages:    loadPages(),
		now:      time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	// Dashboard page and its form posts
	s.router.Get("/", s.handleDashboard)
	s.router.Post("/bodyweight", s.handleBodyweightForm)
	s.router.Post("/training", s.handleTrainingForm)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/schedule", s.handleSchedule)
		r.Get("/plan", s.handlePlan)
		r.Get("/macros", s.handleMacros)
		r.Get("/diet/reference", s.handleDietReference)
		r.Post("/diet/protein", s.handleAddProtein)

		r.Get("/bodyweight", s.handleListBodyweight)
		r.Post("/bodyweight", s.handleSaveBodyweight)
		r.Delete("/bodyweight", s.handleClearBodyweight)
		r.Get("/bodyweight/trend", s.handleBodyweightTrend)

		r.Get("/training", s.handleListTraining)
		r.Post("/training", s.handleAppendTraining)
		r.Delete("/training", s.handleClearTraining)
		r.Get("/training/exercises", s.handleExercises)
		r.Get("/training/trend", s.handleTrainingTrend)
		r.Post("/training/import", s.handleAlphaImport)

		r.Get("/export.xlsx", s.handleExport)
	})
}

// SetMCP mounts the MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

// SetTailscale resolves request identities through the tailnet.
func (s *Server) SetTailscale(c WhoIsClient) {
	s.whois = c
}
