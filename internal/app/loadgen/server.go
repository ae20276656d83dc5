package loadgen

import (
	"eyebench/internal/pkg/constvars"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
)

// statsMaxRequestsPerSecond bounds scrapers polling /stats so they cannot
// skew the run they are observing.
const statsMaxRequestsPerSecond = 50

// NewStatsRouter exposes the live aggregated stats over HTTP so a run can
// be watched from a browser or scraped by another process.
func NewStatsRouter(recorder *StatsRecorder) *chi.Mux {
	router := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(httprate.LimitByIP(statsMaxRequestsPerSecond, time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		payload, err := json.Marshal(recorder.Snapshot())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(payload)
	})

	return router
}
