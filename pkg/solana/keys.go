package solana

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	sol "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceLength = 24

// DecryptKey turns an encrypted-at-rest private key blob plus the
// process-wide secret into a usable signing key. The blob is
// base64(nonce || secretbox ciphertext) sealed with the SHA-256 of the
// process secret. The decrypted key must not outlive one swap attempt.
func DecryptKey(blob, processSecret string) (sol.PrivateKey, error) {
	if processSecret == "" {
		return nil, errors.New("process secret key is not configured")
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode key blob")
	}
	if len(raw) <= nonceLength {
		return nil, errors.New("key blob too short")
	}

	var nonce [nonceLength]byte
	copy(nonce[:], raw[:nonceLength])
	key := sha256.Sum256([]byte(processSecret))

	plaintext, ok := secretbox.Open(nil, raw[nonceLength:], &nonce, &key)
	if !ok {
		return nil, errors.New("failed to decrypt key blob: wrong process secret or corrupt blob")
	}

	signer, err := sol.PrivateKeyFromBase58(string(plaintext))
	if err != nil {
		return nil, errors.Wrap(err, "decrypted blob is not a valid private key")
	}
	return signer, nil
}

// EncryptKey seals a base58 private key into the at-rest blob format.
// Used by provisioning tooling and tests; the daemon itself only decrypts.
func EncryptKey(privateKey sol.PrivateKey, processSecret string) (string, error) {
	if processSecret == "" {
		return "", errors.New("process secret key is not configured")
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}
	key := sha256.Sum256([]byte(processSecret))

	sealed := secretbox.Seal(nonce[:], []byte(privateKey.String()), &nonce, &key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}
