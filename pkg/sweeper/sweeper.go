// Package sweeper implements the balance-triggered cross-chain swap
// pipeline: polling account balances, creating hash-locked orders with
// the coordinator, funding them on the source chain and driving the
// secret reveal protocol to completion.
package sweeper

import (
	"context"
	"sync"
	"sync/atomic"

	sol "github.com/gagliardetto/solana-go"

	"github.com/sweepd-hq/sweepd/pkg/circuitbreaker"
	"github.com/sweepd-hq/sweepd/pkg/config"
	"github.com/sweepd-hq/sweepd/pkg/guard"
	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/models"
	"github.com/sweepd-hq/sweepd/pkg/relayclient"
	"github.com/sweepd-hq/sweepd/pkg/solana"
)

// Coordinator is the slice of the swap coordinator API the pipeline uses
type Coordinator interface {
	GetQuote(ctx context.Context, amount uint64, srcChain, dstChain int, srcToken, dstToken, wallet string) (*models.Quote, error)
	SubmitOrder(ctx context.Context, order models.Order) (string, error)
	OrderStatus(ctx context.Context, orderHash string) (string, error)
	ReadyFills(ctx context.Context, orderHash string) ([]relayclient.ReadyFill, error)
	SubmitSecret(ctx context.Context, orderHash, secret string, idx int) error
}

// ChainClient is the source-chain access the pipeline uses
type ChainClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	FundOrder(ctx context.Context, signer sol.PrivateKey, dest string, lamports uint64, orderRef string) (string, error)
	Confirm(ctx context.Context, signature string) error
}

// AccountSource lists the wallets eligible for sweeping
type AccountSource interface {
	FetchEligibleAccounts(ctx context.Context) ([]models.Account, error)
}

// Service runs the balance poller and the per-account swap pipeline
type Service struct {
	config      *config.Config
	coordinator Coordinator
	chain       ChainClient
	accounts    AccountSource
	guard       guard.Guard
	breaker     *circuitbreaker.CircuitBreaker
	logger      logger.Logger

	// decryptKey is swapped out in tests
	decryptKey func(blob, processSecret string) (sol.PrivateKey, error)

	pendingJobs chan models.Account
	wg          sync.WaitGroup
	passWG      sync.WaitGroup
	passRunning atomic.Bool
}

// NewService creates the sweeper service from its collaborators
func NewService(
	cfg *config.Config,
	coordinator Coordinator,
	chain ChainClient,
	accounts AccountSource,
	cooldown guard.Guard,
	breaker *circuitbreaker.CircuitBreaker,
	log logger.Logger,
) *Service {
	return &Service{
		config:      cfg,
		coordinator: coordinator,
		chain:       chain,
		accounts:    accounts,
		guard:       cooldown,
		breaker:     breaker,
		logger:      log,
		decryptKey:  solana.DecryptKey,
		pendingJobs: make(chan models.Account, 100), // Buffer for triggered accounts
	}
}
