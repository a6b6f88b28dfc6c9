// Package hashlock builds the cryptographic commitments that bind a swap
// order to its reveal secrets.
package hashlock

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SecretLength is the byte length of a reveal secret
const SecretLength = 32

// GenerateSecrets produces count independent random secrets, hex-encoded
// with a 0x prefix. Secrets are held in memory only for the lifetime of
// one swap attempt.
func GenerateSecrets(count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("secret count must be at least 1, got %d", count)
	}

	secrets := make([]string, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, SecretLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate secret: %v", err)
		}
		secrets[i] = "0x" + hex.EncodeToString(buf)
	}
	return secrets, nil
}

// SecretHash computes the keccak256 leaf hash for a single hex-encoded secret
func SecretHash(secret string) (common.Hash, error) {
	b, err := decodeSecret(secret)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// SecretHashes computes the ordered leaf list for a secret set
func SecretHashes(secrets []string) ([]common.Hash, error) {
	hashes := make([]common.Hash, len(secrets))
	for i, s := range secrets {
		h, err := SecretHash(s)
		if err != nil {
			return nil, fmt.Errorf("secret %d: %v", i, err)
		}
		hashes[i] = h
	}
	return hashes, nil
}

// ForSingleFill produces the commitment for a one-secret order: the
// keccak256 hash of the secret itself.
func ForSingleFill(secret string) (common.Hash, error) {
	return SecretHash(secret)
}

// ForMultipleFills aggregates the ordered leaf list into a Merkle root.
// Pairs are hashed left-then-right and an odd trailing node is promoted
// unchanged, so the same ordered leaves always produce the same root.
func ForMultipleFills(leaves []common.Hash) (common.Hash, error) {
	if len(leaves) < 2 {
		return common.Hash{}, fmt.Errorf("multiple fill commitment requires at least 2 leaves, got %d", len(leaves))
	}

	level := make([]common.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, crypto.Keccak256Hash(level[i].Bytes(), level[i+1].Bytes()))
		}
		level = next
	}
	return level[0], nil
}

// Build produces the commitment for a secret set: a direct hash for a
// single secret, a Merkle aggregate otherwise. The commitment is
// immutable once the order is submitted; it must match what was announced
// to the coordinator or secret submission will be rejected.
func Build(secrets []string) (common.Hash, error) {
	switch len(secrets) {
	case 0:
		return common.Hash{}, fmt.Errorf("cannot build commitment over zero secrets")
	case 1:
		return ForSingleFill(secrets[0])
	default:
		leaves, err := SecretHashes(secrets)
		if err != nil {
			return common.Hash{}, err
		}
		return ForMultipleFills(leaves)
	}
}

func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimPrefix(secret, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid secret encoding: %v", err)
	}
	if len(b) != SecretLength {
		return nil, fmt.Errorf("secret must be %d bytes, got %d", SecretLength, len(b))
	}
	return b, nil
}
