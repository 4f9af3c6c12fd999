package internal

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter serves the WebSocket endpoint, the metrics of gatherer and a
// health check. The badger inspector is mounted only when db is set.
func NewRouter(log *slog.Logger, ws http.Handler, gatherer prometheus.Gatherer, db *badger.DB) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	r.Handle("/ws", ws).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	if db != nil {
		r.HandleFunc("/debug/inspect", inspectHandler(db)).Methods(http.MethodGet)
	}
	return r
}

func loggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
