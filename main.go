package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sweepd-hq/sweepd/pkg/accounts"
	"github.com/sweepd-hq/sweepd/pkg/circuitbreaker"
	"github.com/sweepd-hq/sweepd/pkg/config"
	"github.com/sweepd-hq/sweepd/pkg/guard"
	"github.com/sweepd-hq/sweepd/pkg/health"
	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/relayclient"
	"github.com/sweepd-hq/sweepd/pkg/solana"
	"github.com/sweepd-hq/sweepd/pkg/sweeper"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chain := solana.NewClient(cfg.SolanaRPCURL, lg)
	coordinator := relayclient.New(cfg.CoordinatorEndpoint, cfg.CoordinatorAPIKey, lg)
	accountSource := accounts.New(cfg.AccountSourceEndpoint, cfg.AccountSourceToken, lg)
	cooldowns := guard.NewCooldownGuard(cfg.CooldownWindow)
	breaker := circuitbreaker.NewCircuitBreaker(
		cfg.CircuitBreaker.Enabled,
		cfg.CircuitBreaker.Threshold,
		cfg.CircuitBreaker.WindowDuration,
		cfg.CircuitBreaker.ResetTimeout,
	)

	// Start the health and metrics server
	healthServer := health.NewServer(cfg.MetricsPort, cfg.SolanaRPCURL, chain, breaker, cooldowns)
	go healthServer.Start()

	service := sweeper.NewService(cfg, coordinator, chain, accountSource, cooldowns, breaker, lg)

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Received termination signal, shutting down gracefully...")
		cancel()
	}()

	// Start the service
	log.Println("Starting the sweeper service...")
	service.Start(ctx)
}
