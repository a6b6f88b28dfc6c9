package sweeper

import (
	"context"
	"time"

	"github.com/sweepd-hq/sweepd/pkg/chains"
	"github.com/sweepd-hq/sweepd/pkg/guard"
	"github.com/sweepd-hq/sweepd/pkg/metrics"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

// Start runs the balance poller until the context is cancelled. Each tick
// runs one full pass over the eligible accounts; a tick is skipped when
// the previous pass is still running so a slow pass can never pile up
// concurrent passes.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info("Sweeping %s balances to %s",
		chains.GetChainName(s.config.SrcChainID), chains.GetChainName(s.config.DstChainID))
	s.logger.Info("Starting %d sweep workers", s.config.WorkerCount)
	for i := 0; i < s.config.WorkerCount; i++ {
		go s.worker(ctx, i)
	}

	if !s.config.SwapEnabled() {
		s.logger.Notice("Coordinator API key not configured, running balance checks only")
	}

	s.logger.Info("Starting balance poller with interval %v", s.config.PollingInterval)
	ticker := time.NewTicker(s.config.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Context cancelled, shutting down sweeper")
			// Producer first: an in-flight pass may still be queueing
			s.passWG.Wait()
			s.drainPendingJobs()
			s.wg.Wait()
			return
		case <-ticker.C:
			if !s.passRunning.CompareAndSwap(false, true) {
				s.logger.Debug("Previous pass still running, skipping tick")
				metrics.SkippedTicks.Inc()
				continue
			}
			s.passWG.Add(1)
			go func() {
				defer s.passWG.Done()
				defer s.passRunning.Store(false)
				s.runPass(ctx)
			}()
		}
	}
}

// runPass fetches the eligible accounts and queues every account whose
// balance crosses the threshold. One account's failure never blocks the
// rest of the pass.
func (s *Service) runPass(ctx context.Context) {
	accounts, err := s.accounts.FetchEligibleAccounts(ctx)
	if err != nil {
		s.logger.Error("Error fetching eligible accounts: %v", err)
		return
	}
	metrics.EligibleAccounts.Set(float64(len(accounts)))
	s.logger.Debug("Evaluating %d eligible accounts", len(accounts))

	for _, account := range accounts {
		balance, err := s.chain.GetBalance(ctx, account.Address)
		if err != nil {
			s.logger.ErrorWithChain(s.config.SrcChainID, "Error fetching balance for %s: %v", account.Address, err)
			continue
		}
		metrics.WalletBalance.WithLabelValues(account.Address).Set(float64(balance))

		if balance < s.config.BalanceThreshold {
			continue
		}
		s.logger.InfoWithChain(s.config.SrcChainID, "Account %s balance %d crossed threshold %d",
			account.Address, balance, s.config.BalanceThreshold)

		if !s.config.SwapEnabled() {
			metrics.SkippedAccounts.WithLabelValues("swaps_disabled").Inc()
			continue
		}

		if s.breaker.IsEnabled() && s.breaker.IsOpen() {
			failureCount, lastFailure, _, _ := s.breaker.GetState()
			s.logger.Notice("Circuit breaker open (last failure: %v, failure count: %d), skipping account %s",
				lastFailure, failureCount, account.Address)
			metrics.SkippedAccounts.WithLabelValues("circuit_open").Inc()
			continue
		}

		if !s.guard.TryReserve(account.Address) {
			s.logger.Debug("Account %s inside cooldown window, skipping", account.Address)
			metrics.SkippedAccounts.WithLabelValues("cooldown").Inc()
			continue
		}

		s.wg.Add(1)
		select {
		case s.pendingJobs <- account:
		case <-ctx.Done():
			s.guard.Release(account.Address)
			s.wg.Done()
			return
		}
	}

	if cg, ok := s.guard.(*guard.CooldownGuard); ok {
		metrics.ActiveCooldowns.Set(float64(cg.ActiveReservations()))
	}
}

// drainPendingJobs releases accounts still queued after the workers have
// shut down. Workers exit on cancellation without emptying the channel,
// so every queued job must be accounted for here or wg.Wait blocks forever.
func (s *Service) drainPendingJobs() {
	for {
		select {
		case account := <-s.pendingJobs:
			s.guard.Release(account.Address)
			s.wg.Done()
		default:
			return
		}
	}
}

// worker consumes triggered accounts and runs the swap pipeline for each
func (s *Service) worker(ctx context.Context, id int) {
	s.logger.Debug("Starting worker %d", id)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker %d shutting down", id)
			return
		case account := <-s.pendingJobs:
			s.processAccount(ctx, account)
			s.wg.Done()
		}
	}
}

// processAccount runs one swap attempt end to end and records its outcome
func (s *Service) processAccount(ctx context.Context, account models.Account) {
	startTime := time.Now()
	metrics.SweepsStarted.Inc()

	balance, err := s.chain.GetBalance(ctx, account.Address)
	if err != nil {
		s.logger.ErrorWithChain(s.config.SrcChainID, "Error re-checking balance for %s: %v", account.Address, err)
		s.guard.Release(account.Address)
		return
	}

	attempt, err := s.performSwap(ctx, account, balance)
	if err != nil {
		s.logger.Error("Swap attempt for %s failed: %v", account.Address, err)
		// Release the cooldown so the next tick can retry promptly
		s.guard.Release(account.Address)
		s.breaker.RecordFailure()
		metrics.SweepOutcomes.WithLabelValues("pipeline_error").Inc()
		return
	}
	s.breaker.RecordSuccess()

	outcome := s.monitorOrder(ctx, attempt)
	metrics.SweepOutcomes.WithLabelValues(string(outcome)).Inc()
	metrics.SweepDuration.Observe(time.Since(startTime).Seconds())

	if outcome.Success() {
		s.logger.Notice("Swap for %s executed (order %s, funding tx %s)",
			account.Address, attempt.OrderHash, attempt.FundingTx)
		return
	}
	// Non-executed terminal states are expected protocol outcomes, not
	// errors: funds come back through the on-chain refund path and the
	// cooldown stays in place.
	s.logger.Notice("Swap for %s ended %s (order %s)", account.Address, outcome, attempt.OrderHash)
}
