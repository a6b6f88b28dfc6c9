package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sweepd-hq/sweepd/pkg/chains"
	"github.com/sweepd-hq/sweepd/pkg/logger"
)

const (
	// DefaultCoordinatorEndpoint defines the default swap coordinator API endpoint
	DefaultCoordinatorEndpoint = "https://api.crosswap.exchange"

	// DefaultAccountSourceEndpoint defines the default account source API endpoint
	DefaultAccountSourceEndpoint = "https://accounts.crosswap.exchange"

	// DefaultSolanaRPCURL defines the default source chain RPC endpoint
	DefaultSolanaRPCURL = "https://api.mainnet-beta.solana.com"

	// DefaultPollingInterval defines the default balance poll interval in seconds
	DefaultPollingInterval = 30

	// DefaultWorkerCount defines the default number of concurrent sweep workers
	DefaultWorkerCount = 4

	// DefaultMetricsPort defines the default port for the health and metrics server
	DefaultMetricsPort = "8080"

	// DefaultDstChainID defines the default destination chain
	DefaultDstChainID = 8453 // Base

	// DefaultSrcToken is the wrapped SOL mint on the source chain
	DefaultSrcToken = "So11111111111111111111111111111111111111112"

	// DefaultBalanceThreshold is the lamport balance that triggers a sweep
	DefaultBalanceThreshold = 9_000_000 // 0.009 SOL

	// DefaultReserveLamports covers escrow creation, transaction fees and
	// rent exemption; subtracted from the balance before quoting
	DefaultReserveLamports = 6_000_000 // 0.006 SOL

	// DefaultMinSwapLamports is the smallest wrappable amount worth swapping
	DefaultMinSwapLamports = 1_000_000

	// DefaultCooldownSeconds defines the per-account cooldown window
	DefaultCooldownSeconds = 3600

	// DefaultMonitorTimeoutSeconds bounds the secret reveal monitor loop
	DefaultMonitorTimeoutSeconds = 600

	// DefaultMonitorPollSeconds is the monitor loop poll interval
	DefaultMonitorPollSeconds = 5

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = true

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window for the circuit breaker in seconds
	DefaultCircuitBreakerWindow = 60

	// DefaultCircuitBreakerReset defines the reset timeout for the circuit breaker in seconds
	DefaultCircuitBreakerReset = 120
)

// GetEnvCoordinatorEndpoint returns the coordinator API endpoint from environment variables
func GetEnvCoordinatorEndpoint() (string, error) {
	endpoint := os.Getenv("COORDINATOR_ENDPOINT")
	if endpoint == "" {
		return DefaultCoordinatorEndpoint, nil
	}

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("invalid COORDINATOR_ENDPOINT value: %s, must be a valid URL", endpoint)
	}
	return endpoint, nil
}

// GetEnvAccountSourceEndpoint returns the account source endpoint from environment variables
func GetEnvAccountSourceEndpoint() (string, error) {
	endpoint := os.Getenv("ACCOUNT_SOURCE_ENDPOINT")
	if endpoint == "" {
		return DefaultAccountSourceEndpoint, nil
	}

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("invalid ACCOUNT_SOURCE_ENDPOINT value: %s, must be a valid URL", endpoint)
	}
	return endpoint, nil
}

// GetEnvSolanaRPCURL returns the source chain RPC endpoint from environment variables
func GetEnvSolanaRPCURL() (string, error) {
	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		return DefaultSolanaRPCURL, nil
	}

	if _, err := url.ParseRequestURI(rpcURL); err != nil {
		return "", fmt.Errorf("invalid SOLANA_RPC_URL value: %s, must be a valid URL", rpcURL)
	}
	return rpcURL, nil
}

// GetEnvPollingInterval returns the balance poll interval from environment variables
func GetEnvPollingInterval() (time.Duration, error) {
	return getEnvSeconds("POLLING_INTERVAL", DefaultPollingInterval)
}

// GetEnvCooldownWindow returns the per-account cooldown window from environment variables
func GetEnvCooldownWindow() (time.Duration, error) {
	return getEnvSeconds("COOLDOWN_WINDOW", DefaultCooldownSeconds)
}

// GetEnvMonitorTimeout returns the monitor loop deadline from environment variables
func GetEnvMonitorTimeout() (time.Duration, error) {
	return getEnvSeconds("MONITOR_TIMEOUT", DefaultMonitorTimeoutSeconds)
}

// GetEnvMonitorPollInterval returns the monitor loop poll interval from environment variables
func GetEnvMonitorPollInterval() (time.Duration, error) {
	return getEnvSeconds("MONITOR_POLL_INTERVAL", DefaultMonitorPollSeconds)
}

// GetEnvWorkerCount returns the number of sweep workers from environment variables
func GetEnvWorkerCount() (int, error) {
	workerCount := os.Getenv("WORKER_COUNT")
	if workerCount == "" {
		return DefaultWorkerCount, nil
	}

	count, err := strconv.Atoi(workerCount)
	if err != nil {
		return 0, fmt.Errorf("invalid WORKER_COUNT value: %s, must be an integer", workerCount)
	}
	if count <= 0 {
		return 0, fmt.Errorf("WORKER_COUNT must be greater than 0")
	}
	return count, nil
}

// GetEnvMetricsPort returns the metrics server port from environment variables
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return DefaultMetricsPort, nil
	}

	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", fmt.Errorf("invalid METRICS_PORT value: %s, must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvDstChainID returns the destination chain ID from environment variables
func GetEnvDstChainID() (int, error) {
	dstChain := os.Getenv("DST_CHAIN_ID")
	if dstChain == "" {
		return DefaultDstChainID, nil
	}

	chainID, err := strconv.Atoi(dstChain)
	if err != nil {
		return 0, fmt.Errorf("invalid DST_CHAIN_ID value: %s, must be an integer", dstChain)
	}
	if !chains.IsEVM(chainID) {
		return 0, fmt.Errorf("unsupported DST_CHAIN_ID value: %d, known chains: %v", chainID, chains.ChainList)
	}
	return chainID, nil
}

// GetEnvSrcToken returns the source token mint from environment variables
func GetEnvSrcToken() string {
	srcToken := os.Getenv("SRC_TOKEN_ADDRESS")
	if srcToken == "" {
		return DefaultSrcToken
	}
	return srcToken
}

// GetEnvDstToken returns the destination token address from environment variables
func GetEnvDstToken() (string, error) {
	dstToken := os.Getenv("DST_TOKEN_ADDRESS")
	if dstToken == "" {
		return "", nil
	}

	if !common.IsHexAddress(dstToken) {
		return "", fmt.Errorf("invalid DST_TOKEN_ADDRESS value: %s, must be a valid EVM address", dstToken)
	}
	return dstToken, nil
}

// GetEnvReceiverAddress returns the destination chain receiver from environment variables
func GetEnvReceiverAddress() (string, error) {
	receiver := os.Getenv("RECEIVER_ADDRESS")
	if receiver == "" {
		return "", nil
	}

	if !common.IsHexAddress(receiver) {
		return "", fmt.Errorf("invalid RECEIVER_ADDRESS value: %s, must be a valid EVM address", receiver)
	}
	return receiver, nil
}

// GetEnvBalanceThreshold returns the sweep trigger threshold in lamports
func GetEnvBalanceThreshold() (uint64, error) {
	return getEnvLamports("BALANCE_THRESHOLD", DefaultBalanceThreshold)
}

// GetEnvReserveLamports returns the protocol and fee reserve in lamports
func GetEnvReserveLamports() (uint64, error) {
	return getEnvLamports("RESERVE_LAMPORTS", DefaultReserveLamports)
}

// GetEnvMinSwapLamports returns the minimum viable swap size in lamports
func GetEnvMinSwapLamports() (uint64, error) {
	return getEnvLamports("MIN_SWAP_LAMPORTS", DefaultMinSwapLamports)
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled from environment variables
func GetEnvCircuitBreakerEnabled() (bool, error) {
	enabled := os.Getenv("CIRCUIT_BREAKER_ENABLED")
	if enabled == "" {
		return DefaultCircuitBreakerEnabled, nil
	}

	if enabled == "true" {
		return true, nil
	} else if enabled == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED value: %s, must be 'true' or 'false'", enabled)
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvCircuitBreakerThreshold() (int, error) {
	threshold := os.Getenv("CIRCUIT_BREAKER_THRESHOLD")
	if threshold == "" {
		return DefaultCircuitBreakerThreshold, nil
	}

	thresholdInt, err := strconv.Atoi(threshold)
	if err != nil {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_THRESHOLD value: %s, must be an integer", threshold)
	}
	if thresholdInt <= 0 {
		return 0, fmt.Errorf("CIRCUIT_BREAKER_THRESHOLD must be greater than 0")
	}
	return thresholdInt, nil
}

// GetEnvCircuitBreakerWindow returns the circuit breaker window duration from environment variables
func GetEnvCircuitBreakerWindow() (time.Duration, error) {
	return getEnvSeconds("CIRCUIT_BREAKER_WINDOW", DefaultCircuitBreakerWindow)
}

// GetEnvCircuitBreakerReset returns the circuit breaker reset timeout from environment variables
func GetEnvCircuitBreakerReset() (time.Duration, error) {
	return getEnvSeconds("CIRCUIT_BREAKER_RESET", DefaultCircuitBreakerReset)
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "":
		return logger.InfoLevel, nil
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be one of debug, info, notice, error", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be 'true' or 'false'", coloring)
}

func getEnvSeconds(name string, defaultSeconds int) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be an integer number of seconds", name, value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnvLamports(name string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}

	lamports, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be a non-negative integer", name, value)
	}
	return lamports, nil
}
