package sweeper

import (
	"context"
	"time"

	"github.com/sweepd-hq/sweepd/pkg/metrics"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

// monitorOrder drives one SwapAttempt to a terminal state: it polls the
// order status, reveals secrets for fills as their escrows become ready,
// and gives up at the monitor deadline. A transient query failure never
// aborts monitoring; only a terminal status or the deadline ends it.
//
// No cancellation call is issued on timeout. The escrow contracts enforce
// their own on-chain expiry, so past the deadline this process only stops
// spending effort on the attempt.
func (s *Service) monitorOrder(ctx context.Context, attempt *models.SwapAttempt) models.SwapOutcome {
	revealed := make(map[int]bool)

	ticker := time.NewTicker(s.config.MonitorPollInterval)
	defer ticker.Stop()

	for {
		if time.Since(attempt.StartedAt) > s.config.MonitorTimeout {
			s.logger.Notice("Monitor deadline reached for order %s, abandoning attempt", attempt.OrderHash)
			return models.OutcomeTimedOut
		}

		status, err := s.coordinator.OrderStatus(ctx, attempt.OrderHash)
		if err != nil {
			// The coordinator may be transiently unavailable
			s.logger.Debug("Status check failed for order %s: %v", attempt.OrderHash, err)
			metrics.CoordinatorErrors.WithLabelValues("order_status").Inc()
		} else {
			switch status {
			case models.OrderStatusExecuted:
				return models.OutcomeExecuted
			case models.OrderStatusRefunded:
				return models.OutcomeRefunded
			case models.OrderStatusCancelled:
				return models.OutcomeCancelled
			case models.OrderStatusExpired:
				return models.OutcomeExpired
			}
		}

		s.revealReadySecrets(ctx, attempt, revealed)

		select {
		case <-ctx.Done():
			s.logger.Notice("Shutdown requested, abandoning monitor for order %s", attempt.OrderHash)
			return models.OutcomeTimedOut
		case <-ticker.C:
		}
	}
}

// revealReadySecrets submits the secret for every ready fill index not
// yet revealed by this attempt. Each index is submitted at most once; a
// reported index with no matching secret is a contract violation between
// the preset and the secret set, logged but never fatal to the attempt.
func (s *Service) revealReadySecrets(ctx context.Context, attempt *models.SwapAttempt, revealed map[int]bool) {
	fills, err := s.coordinator.ReadyFills(ctx, attempt.OrderHash)
	if err != nil {
		s.logger.Debug("Ready fills check failed for order %s: %v", attempt.OrderHash, err)
		metrics.CoordinatorErrors.WithLabelValues("ready_fills").Inc()
		return
	}

	for _, fill := range fills {
		if revealed[fill.Idx] {
			continue
		}
		if fill.Idx < 0 || fill.Idx >= len(attempt.Secrets) {
			s.logger.Error("Order %s reported ready fill %d but only %d secrets exist",
				attempt.OrderHash, fill.Idx, len(attempt.Secrets))
			continue
		}

		if err := s.coordinator.SubmitSecret(ctx, attempt.OrderHash, attempt.Secrets[fill.Idx], fill.Idx); err != nil {
			s.logger.Error("Secret submission for order %s fill %d failed: %v", attempt.OrderHash, fill.Idx, err)
			metrics.CoordinatorErrors.WithLabelValues("submit_secret").Inc()
			continue
		}
		revealed[fill.Idx] = true
		metrics.SecretsSubmitted.Inc()
		s.logger.Info("Revealed secret for order %s fill %d", attempt.OrderHash, fill.Idx)
	}
}
