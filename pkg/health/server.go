// Package health exposes the operational HTTP surface: liveness and
// readiness probes, a status snapshot, circuit breaker admin control and
// the Prometheus metrics endpoint.
package health

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweepd-hq/sweepd/pkg/circuitbreaker"
	"github.com/sweepd-hq/sweepd/pkg/guard"
)

// ChainHealth reports whether the source-chain RPC endpoint is reachable
type ChainHealth interface {
	Health(ctx context.Context) error
}

// Server represents the health check HTTP server
type Server struct {
	port          string
	rpcURL        string
	chain         ChainHealth
	breaker       *circuitbreaker.CircuitBreaker
	cooldowns     *guard.CooldownGuard
	metricsAPIKey string
}

// NewServer creates a new health check server
func NewServer(port, rpcURL string, chain ChainHealth, breaker *circuitbreaker.CircuitBreaker, cooldowns *guard.CooldownGuard) *Server {
	return &Server{
		port:          port,
		rpcURL:        rpcURL,
		chain:         chain,
		breaker:       breaker,
		cooldowns:     cooldowns,
		metricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the health check server
func (s *Server) Start() {
	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check: the process is ready once the RPC endpoint answers
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := s.chain.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Solana RPC not reachable: " + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Status snapshot endpoint
	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		circuitStatus := "closed"
		if s.breaker.IsOpen() {
			circuitStatus = "open"
		}
		failureCount, lastFailure, _, _ := s.breaker.GetState()

		status := map[string]interface{}{
			"rpc_url":          s.rpcURL,
			"rpc_reachable":    s.chain.Health(r.Context()) == nil,
			"circuit":          circuitStatus,
			"failure_count":    failureCount,
			"active_cooldowns": s.cooldowns.ActiveReservations(),
		}
		if !lastFailure.IsZero() {
			status["last_failure"] = lastFailure
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding status JSON: %v", err)
		}
	})

	// Circuit breaker admin control endpoint
	http.HandleFunc("/circuit/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		s.breaker.Reset()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Circuit breaker reset"))
	})

	// Expose Prometheus metrics with API key authentication
	http.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	log.Printf("Starting health and metrics server on port %s", s.port)
	if err := http.ListenAndServe(":"+s.port, nil); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
