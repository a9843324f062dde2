package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tickerpulse/backend/internal/api/handlers"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	postsHandler *handlers.PostsHandler,
	stocksHandler *handlers.StocksHandler,
	ingestHandler *handlers.IngestHandler,
	trendingWS *TrendingStream,
	limiter *redis.RateLimiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check, exempt from rate limiting
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Posts
	api.Handle("/posts", limited(limiter, "posts:list", postsHandler.List)).Methods("GET")
	api.Handle("/posts/trending", limited(limiter, "posts:trending", postsHandler.Trending)).Methods("GET")
	api.Handle("/posts/ticker/{ticker}", limited(limiter, "posts:ticker", postsHandler.ByTicker)).Methods("GET")
	api.Handle("/posts/sentiment/{ticker}", limited(limiter, "posts:sentiment", postsHandler.Sentiment)).Methods("GET")
	api.Handle("/posts/analytics/quality", limited(limiter, "posts:analytics", postsHandler.QualityAnalytics)).Methods("GET")

	// Stocks
	api.Handle("/stocks/prices/{ticker}", limited(limiter, "stocks:prices", stocksHandler.Prices)).Methods("GET")
	api.Handle("/stocks/latest/{ticker}", limited(limiter, "stocks:latest", stocksHandler.Latest)).Methods("GET")
	api.Handle("/stocks/indicators/{ticker}", limited(limiter, "stocks:prices", stocksHandler.Indicators)).Methods("GET")
	api.Handle("/stocks/fetch/{ticker}", limited(limiter, "stocks:fetch", stocksHandler.Fetch)).Methods("POST")
	api.Handle("/stocks/fetch", limited(limiter, "stocks:fetch", stocksHandler.FetchBatch)).Methods("POST")

	// Ingestion
	api.Handle("/ingest/reddit", limited(limiter, "posts:ingest", ingestHandler.Run)).Methods("POST")
	api.Handle("/ingest/backfill", limited(limiter, "default:write", ingestHandler.Backfill)).Methods("POST")

	// Live trending feed
	r.HandleFunc("/api/ws/trending", trendingWS.Serve)

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tickerpulse-api",
	})
}

// limited wraps a handler with the per-client rate limit registered
// for the endpoint identifier. When Redis is disabled the limiter
// allows everything, so the wrapper degrades to a passthrough.
func limited(limiter *redis.RateLimiter, endpoint string, next http.HandlerFunc) http.Handler {
	cfg := redis.EndpointLimit(endpoint)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, err := limiter.AllowClient(r.Context(), cfg, clientIP(r))
		if err != nil {
			// Limiter trouble must not take down read traffic
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":     "rate limit exceeded",
				"remaining": remaining,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller identity for rate limiting
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
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
