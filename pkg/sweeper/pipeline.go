package sweeper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sweepd-hq/sweepd/pkg/hashlock"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

// computeWrappable returns the lamports available for the swap after the
// protocol and fee reserve, zero when the balance does not cover it.
func computeWrappable(balance, reserve uint64) uint64 {
	if balance <= reserve {
		return 0
	}
	return balance - reserve
}

// performSwap runs the order construction half of one swap attempt:
// reserve arithmetic, quote, commitment, order submission and the funding
// transfer. Any error aborts the attempt; already-broadcast side effects
// are not rolled back here, the chain-level refund path covers them.
func (s *Service) performSwap(ctx context.Context, account models.Account, balance uint64) (*models.SwapAttempt, error) {
	wrappable := computeWrappable(balance, s.config.ReserveLamports)
	if wrappable == 0 {
		return nil, fmt.Errorf("insufficient balance: %d lamports does not cover the %d lamport reserve",
			balance, s.config.ReserveLamports)
	}
	if wrappable < s.config.MinSwapLamports {
		return nil, fmt.Errorf("insufficient balance: wrappable amount %d below minimum swap size %d",
			wrappable, s.config.MinSwapLamports)
	}

	quote, err := s.coordinator.GetQuote(ctx, wrappable,
		s.config.SrcChainID, s.config.DstChainID,
		s.config.SrcToken, s.config.DstToken,
		account.Address)
	if err != nil {
		return nil, fmt.Errorf("quote failed: %v", err)
	}

	preset, ok := quote.Preset()
	if !ok {
		return nil, fmt.Errorf("quote %s has no usable preset", quote.QuoteID)
	}
	secretsCount := preset.SecretsCount
	if secretsCount < 1 {
		secretsCount = 1
	}

	secrets, err := hashlock.GenerateSecrets(secretsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secrets: %v", err)
	}
	commitment, err := hashlock.Build(secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to build commitment: %v", err)
	}
	leaves, err := hashlock.SecretHashes(secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secrets: %v", err)
	}
	secretHashes := make([]string, len(leaves))
	for i, leaf := range leaves {
		secretHashes[i] = leaf.Hex()
	}

	order := models.Order{
		QuoteID:      quote.QuoteID,
		HashLock:     commitment.Hex(),
		SecretHashes: secretHashes,
		Preset:       quote.RecommendedPreset,
		Maker:        account.Address,
		Receiver:     s.config.Receiver,
		SrcChainID:   s.config.SrcChainID,
		DstChainID:   s.config.DstChainID,
		SrcToken:     s.config.SrcToken,
		DstToken:     s.config.DstToken,
		Amount:       strconv.FormatUint(wrappable, 10),
	}

	// The commitment is registered with the coordinator before any funds
	// move; reversing this order would move funds without an order
	// reference, which the protocol cannot recover from.
	orderHash, err := s.coordinator.SubmitOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("order submission failed: %v", err)
	}
	s.logger.Info("Order %s submitted for %s (%d lamports, %d secrets)",
		orderHash, account.Address, wrappable, len(secrets))

	// The decrypted signing key stays scoped to this attempt
	signer, err := s.decryptKey(account.EncryptedKey, s.config.ProcessSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt account key: %v", err)
	}

	fundingTx, err := s.chain.FundOrder(ctx, signer, quote.SrcEscrowFactory, wrappable, orderHash)
	if err != nil {
		return nil, fmt.Errorf("funding transfer failed: %v", err)
	}
	s.logger.InfoWithChain(s.config.SrcChainID, "Funding tx %s broadcast for order %s", fundingTx, orderHash)

	if err := s.chain.Confirm(ctx, fundingTx); err != nil {
		return nil, fmt.Errorf("funding confirmation failed: %v", err)
	}

	return &models.SwapAttempt{
		Account:   account,
		Amount:    wrappable,
		Order:     order,
		OrderHash: orderHash,
		FundingTx: fundingTx,
		Secrets:   secrets,
		StartedAt: time.Now(),
	}, nil
}
