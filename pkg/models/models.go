package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is an eligible wallet returned by the account source API
type Account struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_key"`
	ChainID      int    `json:"chain_id"`
	Status       string `json:"status"`
}

// Preset holds the execution parameters recommended by the coordinator for a quote
type Preset struct {
	SecretsCount       int     `json:"secretsCount"`
	AllowMultipleFills bool    `json:"allowMultipleFills"`
	AuctionDuration    int64   `json:"auctionDuration"`
	InitialRateBump    float64 `json:"initialRateBump"`
	GasCost            struct {
		GasBumpEstimate  float64 `json:"gasBumpEstimate"`
		GasPriceEstimate string  `json:"gasPriceEstimate"`
	} `json:"gasCost"`
}

// Quote is a fee/rate proposal from the coordinator for a single swap attempt.
// Quotes are never cached across attempts.
type Quote struct {
	QuoteID            uuid.UUID         `json:"quoteId"`
	SrcTokenAmount     string            `json:"srcTokenAmount"`
	DstTokenAmount     string            `json:"dstTokenAmount"`
	RecommendedPreset  string            `json:"recommendedPreset"`
	Presets            map[string]Preset `json:"presets"`
	SrcEscrowFactory   string            `json:"srcEscrowFactory"`
	SrcSafetyDeposit   string            `json:"srcSafetyDeposit"`
	DstSafetyDeposit   string            `json:"dstSafetyDeposit"`
	TimeLocksWhitelist []string          `json:"whitelist,omitempty"`
}

// Preset returns the preset named by the quote's recommendation
func (q *Quote) Preset() (Preset, bool) {
	p, ok := q.Presets[q.RecommendedPreset]
	return p, ok
}

// Order is the bundle submitted to the coordinator. Immutable once submitted.
type Order struct {
	QuoteID      uuid.UUID `json:"quoteId"`
	HashLock     string    `json:"hashLock"`
	SecretHashes []string  `json:"secretHashes"`
	Preset       string    `json:"preset"`
	Maker        string    `json:"maker"`
	Receiver     string    `json:"receiver"`
	SrcChainID   int       `json:"srcChainId"`
	DstChainID   int       `json:"dstChainId"`
	SrcToken     string    `json:"srcTokenAddress"`
	DstToken     string    `json:"dstTokenAddress"`
	Amount       string    `json:"amount"`
}

// OrderStatus values reported by the coordinator
const (
	OrderStatusPending   = "pending"
	OrderStatusExecuted  = "executed"
	OrderStatusRefunded  = "refunded"
	OrderStatusCancelled = "cancelled"
	OrderStatusExpired   = "expired"
)

// SwapOutcome is the terminal result of one swap attempt
type SwapOutcome string

const (
	OutcomeExecuted  SwapOutcome = "EXECUTED"
	OutcomeRefunded  SwapOutcome = "REFUNDED"
	OutcomeCancelled SwapOutcome = "CANCELLED"
	OutcomeExpired   SwapOutcome = "EXPIRED"
	OutcomeTimedOut  SwapOutcome = "TIMED_OUT"
)

// Success reports whether the outcome means the swap completed
func (o SwapOutcome) Success() bool {
	return o == OutcomeExecuted
}

// SwapAttempt ties together everything belonging to one in-flight swap.
// Attempts live only in process memory; a crash discards them and the
// on-chain refund path takes over.
type SwapAttempt struct {
	Account   Account
	Amount    uint64 // wrappable lamports, net of reserve
	Order     Order
	OrderHash string   // coordinator order reference, never the funding signature
	FundingTx string   // source chain transaction signature
	Secrets   []string // hex-encoded, index-aligned with Order.SecretHashes
	StartedAt time.Time
}
