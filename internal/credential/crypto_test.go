package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewCipher("", filepath.Join(t.TempDir(), "key"))
	require.NoError(t, err)

	stored, err := c.Encrypt("super-secret-token")
	require.NoError(t, err)
	require.NotContains(t, stored, "super-secret-token")

	plain, err := c.Decrypt(stored)
	require.NoError(t, err)
	require.Equal(t, "super-secret-token", plain)
}

func TestCipherNonceUniqueness(t *testing.T) {
	t.Parallel()

	c, err := NewCipher("", filepath.Join(t.TempDir(), "key"))
	require.NoError(t, err)

	a, err := c.Encrypt("same-plaintext")
	require.NoError(t, err)
	b, err := c.Encrypt("same-plaintext")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "each Encrypt call must use a fresh random nonce")
}

func TestCipherKeyFilePersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	keyPath := filepath.Join(t.TempDir(), "key")
	c1, err := NewCipher("", keyPath)
	require.NoError(t, err)
	_, err = os.Stat(keyPath)
	require.NoError(t, err, "generated key must be persisted to disk")

	stored, err := c1.Encrypt("token")
	require.NoError(t, err)

	c2, err := NewCipher("", keyPath)
	require.NoError(t, err)
	plain, err := c2.Decrypt(stored)
	require.NoError(t, err)
	require.Equal(t, "token", plain)
}

func TestCipherRejectsCorruptKey(t *testing.T) {
	t.Parallel()

	_, err := NewCipher("not-valid-base64!!", filepath.Join(t.TempDir(), "key"))
	require.Error(t, err)
}
