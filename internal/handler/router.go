package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/staffbook/backend/internal/handler/employee"
	"github.com/zhouzirui/staffbook/backend/internal/handler/feed"
	"github.com/zhouzirui/staffbook/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/staffbook/backend/internal/middleware"
	employeeService "github.com/zhouzirui/staffbook/backend/internal/service/employee"
	feedService "github.com/zhouzirui/staffbook/backend/internal/service/feed"
	"github.com/zhouzirui/staffbook/backend/pkg/utils"
)

// Options carries the collaborators NewRouter wires into routes.
type Options struct {
	Store employeeService.Store
	Hub   *feedService.Hub
	// Metrics is optional; nil disables /metrics and request counting.
	Metrics           *metrics.Collection
	SkipCodeThreshold int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLog(opts.SkipCodeThreshold))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"employees": opts.Store.Len(),
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondText(w, http.StatusNotFound, "Not Found")
	})

	r.Route("/api", func(api chi.Router) {
		employee.New(opts.Store).RegisterRoutes(api)

		if opts.Hub != nil {
			feed.New(opts.Store, opts.Hub).RegisterRoutes(api)
		}
	})

	return r
}
