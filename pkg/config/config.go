package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sweepd-hq/sweepd/pkg/chains"
	"github.com/sweepd-hq/sweepd/pkg/logger"
)

// Config holds the configuration for the sweeper service
type Config struct {
	CoordinatorEndpoint   string
	CoordinatorAPIKey     string
	AccountSourceEndpoint string
	AccountSourceToken    string
	SolanaRPCURL          string

	SrcChainID int
	DstChainID int
	SrcToken   string
	DstToken   string
	Receiver   string

	PollingInterval     time.Duration
	BalanceThreshold    uint64
	ReserveLamports     uint64
	MinSwapLamports     uint64
	CooldownWindow      time.Duration
	MonitorTimeout      time.Duration
	MonitorPollInterval time.Duration
	WorkerCount         int
	MetricsPort         string

	// ProcessSecretKey unseals the encrypted account key blobs
	ProcessSecretKey string

	CircuitBreaker CircuitBreakerConfig
	LoggerConfig   LoggerConfig
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// SwapEnabled reports whether the pipeline may submit orders. Without a
// coordinator API key the poller still runs balance checks but never
// triggers a swap.
func (c *Config) SwapEnabled() bool {
	return c.CoordinatorAPIKey != ""
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	coordinatorEndpoint, err := GetEnvCoordinatorEndpoint()
	if err != nil {
		return nil, err
	}

	accountSourceEndpoint, err := GetEnvAccountSourceEndpoint()
	if err != nil {
		return nil, err
	}

	solanaRPCURL, err := GetEnvSolanaRPCURL()
	if err != nil {
		return nil, err
	}

	pollingInterval, err := GetEnvPollingInterval()
	if err != nil {
		return nil, err
	}

	cooldownWindow, err := GetEnvCooldownWindow()
	if err != nil {
		return nil, err
	}

	monitorTimeout, err := GetEnvMonitorTimeout()
	if err != nil {
		return nil, err
	}

	monitorPollInterval, err := GetEnvMonitorPollInterval()
	if err != nil {
		return nil, err
	}

	workerCount, err := GetEnvWorkerCount()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	dstChainID, err := GetEnvDstChainID()
	if err != nil {
		return nil, err
	}

	dstToken, err := GetEnvDstToken()
	if err != nil {
		return nil, err
	}

	receiver, err := GetEnvReceiverAddress()
	if err != nil {
		return nil, err
	}

	balanceThreshold, err := GetEnvBalanceThreshold()
	if err != nil {
		return nil, err
	}

	reserveLamports, err := GetEnvReserveLamports()
	if err != nil {
		return nil, err
	}

	minSwapLamports, err := GetEnvMinSwapLamports()
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvCircuitBreakerWindow()
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvCircuitBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CoordinatorEndpoint:   coordinatorEndpoint,
		CoordinatorAPIKey:     os.Getenv("COORDINATOR_API_KEY"),
		AccountSourceEndpoint: accountSourceEndpoint,
		AccountSourceToken:    os.Getenv("ACCOUNT_SOURCE_TOKEN"),
		SolanaRPCURL:          solanaRPCURL,
		SrcChainID:            chains.SolanaChainID,
		DstChainID:            dstChainID,
		SrcToken:              GetEnvSrcToken(),
		DstToken:              dstToken,
		Receiver:              receiver,
		PollingInterval:       pollingInterval,
		BalanceThreshold:      balanceThreshold,
		ReserveLamports:       reserveLamports,
		MinSwapLamports:       minSwapLamports,
		CooldownWindow:        cooldownWindow,
		MonitorTimeout:        monitorTimeout,
		MonitorPollInterval:   monitorPollInterval,
		WorkerCount:           workerCount,
		MetricsPort:           metricsPort,
		ProcessSecretKey:      os.Getenv("PROCESS_SECRET_KEY"),
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !cfg.SwapEnabled() {
		// Missing API key disables triggering, not the process
		log.Printf("Warning: COORDINATOR_API_KEY not set, swap triggering is disabled")
		return nil
	}
	if cfg.Receiver == "" {
		return fmt.Errorf("RECEIVER_ADDRESS is required when swaps are enabled")
	}
	if cfg.DstToken == "" {
		return fmt.Errorf("DST_TOKEN_ADDRESS is required when swaps are enabled")
	}
	if cfg.ProcessSecretKey == "" {
		return fmt.Errorf("PROCESS_SECRET_KEY is required when swaps are enabled")
	}
	if cfg.BalanceThreshold <= cfg.ReserveLamports {
		return fmt.Errorf("BALANCE_THRESHOLD (%d) must exceed RESERVE_LAMPORTS (%d)",
			cfg.BalanceThreshold, cfg.ReserveLamports)
	}
	return nil
}
