package hashlock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecrets(t *testing.T) {
	secrets, err := GenerateSecrets(3)
	require.NoError(t, err)
	require.Len(t, secrets, 3)

	seen := make(map[string]bool)
	for _, s := range secrets {
		assert.True(t, strings.HasPrefix(s, "0x"), "secret should carry 0x prefix")
		assert.Len(t, s, 2+2*SecretLength)
		assert.False(t, seen[s], "secrets must be independent")
		seen[s] = true
	}
}

func TestGenerateSecretsRejectsZeroCount(t *testing.T) {
	_, err := GenerateSecrets(0)
	assert.Error(t, err)

	_, err = GenerateSecrets(-1)
	assert.Error(t, err)
}

func TestBuildDeterminism(t *testing.T) {
	secrets := []string{
		"0x1111111111111111111111111111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333333333333333333333333333",
	}

	first, err := Build(secrets)
	require.NoError(t, err)
	second, err := Build(secrets)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same ordered secret list must yield the same commitment")
}

func TestBuildDistinctInputs(t *testing.T) {
	a := []string{
		"0x1111111111111111111111111111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222222222222222222222222222",
	}
	b := []string{
		"0x1111111111111111111111111111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222222222222222222222222223",
	}

	ca, err := Build(a)
	require.NoError(t, err)
	cb, err := Build(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cb, "commitments over distinct secret lists must differ")
}

func TestBuildSingleFillMatchesSecretHash(t *testing.T) {
	secret := "0x4444444444444444444444444444444444444444444444444444444444444444"

	commitment, err := Build([]string{secret})
	require.NoError(t, err)

	direct, err := SecretHash(secret)
	require.NoError(t, err)
	assert.Equal(t, direct, commitment)
}

func TestBuildRejectsEmptySecretList(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}

func TestBuildRejectsMalformedSecret(t *testing.T) {
	_, err := Build([]string{"0xdeadbeef"})
	assert.Error(t, err, "short secret should be rejected")

	_, err = Build([]string{"not-hex"})
	assert.Error(t, err)
}

func TestForMultipleFillsOddLeafCount(t *testing.T) {
	secrets := []string{
		"0x1111111111111111111111111111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333333333333333333333333333",
		"0x4444444444444444444444444444444444444444444444444444444444444444",
		"0x5555555555555555555555555555555555555555555555555555555555555555",
	}

	leaves, err := SecretHashes(secrets)
	require.NoError(t, err)

	root, err := ForMultipleFills(leaves)
	require.NoError(t, err)
	assert.NotEqual(t, root, leaves[0])

	again, err := ForMultipleFills(leaves)
	require.NoError(t, err)
	assert.Equal(t, root, again)
}
