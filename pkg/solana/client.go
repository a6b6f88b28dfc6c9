// Package solana wraps the source-chain RPC access the sweeper needs:
// balance queries, the funding transfer and confirmation polling.
package solana

import (
	"context"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/sweepd-hq/sweepd/pkg/logger"
)

const confirmPollInterval = 2 * time.Second

// Client is a thin wrapper over the Solana JSON-RPC client
type Client struct {
	rpc    *rpc.Client
	logger logger.Logger
}

// NewClient creates a client for the given RPC endpoint
func NewClient(rpcURL string, logger logger.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger,
	}
}

// GetBalance returns the native lamport balance of the given address
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	pubKey, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse address")
	}

	balance, err := c.rpc.GetBalance(ctx, pubKey, rpc.CommitmentFinalized)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get native balance")
	}
	return balance.Value, nil
}

// FundOrder transfers lamports from the signer to the escrow-bound
// deposit address, tagging the transaction with the coordinator's order
// reference in a memo. The returned value is the chain transaction
// signature; it is not the coordinator order reference.
func (c *Client) FundOrder(ctx context.Context, signer sol.PrivateKey, dest string, lamports uint64, orderRef string) (string, error) {
	destPubKey, err := sol.PublicKeyFromBase58(dest)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse destination address")
	}
	signerPubKey := signer.PublicKey()

	// Get recent blockhash
	latestBlockhashResult, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", errors.Wrap(err, "failed to get latest blockhash")
	}
	latestBlockhash := latestBlockhashResult.Value.Blockhash

	transferIx := system.NewTransferInstruction(lamports, signerPubKey, destPubKey).Build()

	instructions := []sol.Instruction{transferIx}
	if orderRef != "" {
		instructions = append(instructions, newMemoInstruction(orderRef))
	}

	tx, err := sol.NewTransaction(
		instructions,
		latestBlockhash,
		sol.TransactionPayer(signerPubKey),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to create transaction")
	}

	_, err = tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if signerPubKey.Equals(key) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to sign transaction")
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to send transaction")
	}

	return sig.String(), nil
}

// Confirm polls the signature status until the transaction is finalized
// or the context is cancelled.
func (c *Client) Confirm(ctx context.Context, signature string) error {
	sig, err := sol.SignatureFromBase58(signature)
	if err != nil {
		return errors.Wrap(err, "failed to parse signature")
	}

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "confirmation aborted")
		case <-ticker.C:
			out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
			if err != nil {
				c.logger.Debug("Signature status check failed, retrying: %v", err)
				continue
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}
			status := out.Value[0]
			if status.Err != nil {
				return errors.Errorf("transaction %s failed on chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
	}
}

// Health checks that the RPC endpoint is reachable
func (c *Client) Health(ctx context.Context) error {
	_, err := c.rpc.GetHealth(ctx)
	return errors.Wrap(err, "rpc health check failed")
}

// newMemoInstruction builds a memo-program instruction carrying msg
func newMemoInstruction(msg string) sol.Instruction {
	return sol.NewInstruction(
		sol.MemoProgramID,
		sol.AccountMetaSlice{},
		[]byte(msg),
	)
}
