package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/quantlens/backend/internal/api/handlers"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	peerHandler *handlers.PeerHandler,
	themeHandler *handlers.ThemeHandler,
	scoreHandler *handlers.ScoreHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Peer endpoints
	api.HandleFunc("/peers/{symbol}", peerHandler.Discover).Methods("GET")
	api.HandleFunc("/peers/{symbol}/comparison", peerHandler.Compare).Methods("GET")

	// Theme endpoints ("reload" registered ahead of the {id} capture)
	api.HandleFunc("/themes", themeHandler.List).Methods("GET")
	api.HandleFunc("/themes/reload", themeHandler.Reload).Methods("POST")
	api.HandleFunc("/themes/{id}", themeHandler.Get).Methods("GET")
	api.HandleFunc("/themes/{id}/analysis", themeHandler.Analyze).Methods("GET")

	// Scoring endpoints
	api.HandleFunc("/scores/disruption/batch", scoreHandler.DisruptionBatch).Methods("POST")
	api.HandleFunc("/scores/disruption/{symbol}", scoreHandler.Disruption).Methods("GET")
	api.HandleFunc("/scores/earnings/{symbol}", scoreHandler.Earnings).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "quantlens-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
