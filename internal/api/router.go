package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/vodflow/pkg/httpjson"
)

// Mounter registers a group of routes on the shared router.
type Mounter interface {
	Mount(r chi.Router)
}

// NewRouter builds the HTTP surface: health, metrics and every mounted
// webhook group.
func NewRouter(timeout time.Duration, groups ...Mounter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, g := range groups {
		g.Mount(r)
	}
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
