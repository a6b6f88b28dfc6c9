package sweeper

import (
	"context"
	"sync"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/sweepd-hq/sweepd/pkg/chains"
	"github.com/sweepd-hq/sweepd/pkg/circuitbreaker"
	"github.com/sweepd-hq/sweepd/pkg/config"
	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/models"
	"github.com/sweepd-hq/sweepd/pkg/relayclient"
)

// statusStep is one scripted OrderStatus response
type statusStep struct {
	status string
	err    error
}

type secretCall struct {
	orderHash string
	secret    string
	idx       int
}

// fakeCoordinator scripts coordinator responses; sequences repeat their
// last element once exhausted.
type fakeCoordinator struct {
	mu sync.Mutex

	quote      *models.Quote
	quoteErr   error
	quoteCalls []uint64

	orderHash string
	submitErr error
	submitted []models.Order

	statuses  []statusStep
	statusIdx int

	fills    [][]relayclient.ReadyFill
	fillsErr error
	fillsIdx int

	secretErrs []error
	secrets    []secretCall
}

func (f *fakeCoordinator) GetQuote(_ context.Context, amount uint64, _, _ int, _, _, _ string) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls = append(f.quoteCalls, amount)
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeCoordinator) SubmitOrder(_ context.Context, order models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, order)
	return f.orderHash, nil
}

func (f *fakeCoordinator) OrderStatus(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return models.OrderStatusPending, nil
	}
	step := f.statuses[f.statusIdx]
	if f.statusIdx < len(f.statuses)-1 {
		f.statusIdx++
	}
	return step.status, step.err
}

func (f *fakeCoordinator) ReadyFills(_ context.Context, _ string) ([]relayclient.ReadyFill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fillsErr != nil {
		return nil, f.fillsErr
	}
	if len(f.fills) == 0 {
		return nil, nil
	}
	fills := f.fills[f.fillsIdx]
	if f.fillsIdx < len(f.fills)-1 {
		f.fillsIdx++
	}
	return fills, nil
}

func (f *fakeCoordinator) SubmitSecret(_ context.Context, orderHash, secret string, idx int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.secrets)
	f.secrets = append(f.secrets, secretCall{orderHash: orderHash, secret: secret, idx: idx})
	if call < len(f.secretErrs) {
		return f.secretErrs[call]
	}
	return nil
}

type fundCall struct {
	dest     string
	lamports uint64
	orderRef string
}

type fakeChain struct {
	mu sync.Mutex

	balances   map[string]uint64
	balanceErr error
	errFor     map[string]error

	fundSig   string
	fundErr   error
	fundCalls []fundCall

	confirmErr error
	confirmed  []string
}

func (f *fakeChain) GetBalance(_ context.Context, address string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	if err, ok := f.errFor[address]; ok {
		return 0, err
	}
	return f.balances[address], nil
}

func (f *fakeChain) FundOrder(_ context.Context, _ sol.PrivateKey, dest string, lamports uint64, orderRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fundErr != nil {
		return "", f.fundErr
	}
	f.fundCalls = append(f.fundCalls, fundCall{dest: dest, lamports: lamports, orderRef: orderRef})
	return f.fundSig, nil
}

func (f *fakeChain) Confirm(_ context.Context, signature string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, signature)
	return nil
}

type fakeAccounts struct {
	accounts []models.Account
	err      error
}

func (f *fakeAccounts) FetchEligibleAccounts(_ context.Context) ([]models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

type fakeGuard struct {
	mu       sync.Mutex
	deny     map[string]bool
	reserved []string
	released []string
}

func (f *fakeGuard) TryReserve(account string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deny[account] {
		return false
	}
	f.reserved = append(f.reserved, account)
	return true
}

func (f *fakeGuard) Release(account string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, account)
}

func (f *fakeGuard) releasedAccounts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.released...)
}

func testConfig() *config.Config {
	return &config.Config{
		CoordinatorAPIKey:   "test-key",
		ProcessSecretKey:    "test-process-secret",
		SrcChainID:          chains.SolanaChainID,
		DstChainID:          8453,
		SrcToken:            "So11111111111111111111111111111111111111112",
		DstToken:            "0x4200000000000000000000000000000000000006",
		Receiver:            "0x1111111111111111111111111111111111111111",
		PollingInterval:     10 * time.Millisecond,
		BalanceThreshold:    9_000_000,
		ReserveLamports:     6_000_000,
		MinSwapLamports:     1_000_000,
		CooldownWindow:      time.Hour,
		MonitorTimeout:      5 * time.Second,
		MonitorPollInterval: time.Millisecond,
		WorkerCount:         1,
	}
}

func testQuote(secretsCount int) *models.Quote {
	return &models.Quote{
		QuoteID:           uuid.New(),
		SrcTokenAmount:    "24000000",
		DstTokenAmount:    "7000000000000000",
		RecommendedPreset: "fast",
		Presets: map[string]models.Preset{
			"fast": {
				SecretsCount:       secretsCount,
				AllowMultipleFills: secretsCount > 1,
			},
		},
		SrcEscrowFactory: "Esc1111111111111111111111111111111111111111",
	}
}

func newTestService(cfg *config.Config, coord *fakeCoordinator, chain *fakeChain, accounts *fakeAccounts, g *fakeGuard) *Service {
	breaker := circuitbreaker.NewCircuitBreaker(true, 5, time.Minute, time.Minute)
	s := NewService(cfg, coord, chain, accounts, g, breaker, &logger.EmptyLogger{})
	s.decryptKey = func(_, _ string) (sol.PrivateKey, error) {
		return sol.NewWallet().PrivateKey, nil
	}
	return s
}
