package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ServeInBackground exposes /metrics and /health while a migration run is in
// flight. The server dies with the process; batch runs have no shutdown
// sequence of their own.
func ServeInBackground(port string) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	// Resolved per request: the system collector may start after the server.
	router.HandleFunc("/metrics/system", func(w http.ResponseWriter, r *http.Request) {
		reg := System().Registry()
		if reg == nil {
			http.Error(w, "system metrics collection is disabled", http.StatusNotFound)
			return
		}
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	go func() {
		server := &http.Server{
			Addr:    ":" + port,
			Handler: router,
		}

		log.Info().
			Str("port", port).
			Msg("Starting metrics server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().
				Err(err).
				Msg("Metrics server failed")
		}
	}()
}
