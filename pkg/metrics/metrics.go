package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	SweepsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_sweeps_started_total",
		Help: "The total number of swap attempts started",
	})

	SweepOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_sweep_outcomes_total",
		Help: "Terminal outcomes of swap attempts",
	}, []string{"outcome"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sweeper_sweep_duration_seconds",
		Help:    "Wall-clock time from attempt start to terminal state",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s up to ~68min
	})

	WalletBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweeper_wallet_balance_lamports",
		Help: "Last observed source-chain balance per account",
	}, []string{"account"})

	SecretsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_secrets_submitted_total",
		Help: "The total number of fill secrets revealed to the coordinator",
	})

	CoordinatorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_coordinator_errors_total",
		Help: "Failed coordinator API calls by call name",
	}, []string{"call"})

	EligibleAccounts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sweeper_eligible_accounts",
		Help: "Number of accounts returned by the last account source fetch",
	})

	SkippedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_skipped_ticks_total",
		Help: "Poll ticks skipped because the previous pass was still running",
	})

	SkippedAccounts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_skipped_accounts_total",
		Help: "Accounts skipped during a pass by reason",
	}, []string{"reason"})

	ActiveCooldowns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sweeper_active_cooldowns",
		Help: "Accounts currently inside the cooldown window",
	})
)
