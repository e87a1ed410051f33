// Package credential implements the encrypted credential store described
// in spec.md §4.3: CRUD over PlatformCredential rows, refresh
// orchestration via per-platform Authenticators, and the AEAD boundary
// that keeps plaintext tokens out of logs and off disk.
//
// The AEAD is ChaCha20-Poly1305 from golang.org/x/crypto, already present
// in the retrieved corpus's dependency surface (razectp-closedwheeleragi's
// go.mod) though unused by the teacher itself; key resolution follows the
// teacher's layered "config value, then fetch" shape seen in
// shared/auth.NewKeycloakAuth (try the configured public key first, fall
// back to fetching one).
package credential

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher encrypts/decrypts credential secrets with a single process-wide
// 256-bit key.
type Cipher struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

// NewCipher resolves the symmetric key (env var -> key file -> generated)
// and constructs a Cipher (spec.md §4.3, §6 MAOWBOT_* env vars).
func NewCipher(envValue, keyFilePath string) (*Cipher, error) {
	key, err := resolveKey(envValue, keyFilePath)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("init AEAD: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

func resolveKey(envValue, keyFilePath string) ([]byte, error) {
	if envValue != "" {
		key, err := base64.StdEncoding.DecodeString(envValue)
		if err != nil {
			return nil, fmt.Errorf("decode MAOWBOT_CRED_KEY: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("MAOWBOT_CRED_KEY must decode to %d bytes, got %d", chacha20poly1305.KeySize, len(key))
		}
		return key, nil
	}

	if data, err := os.ReadFile(keyFilePath); err == nil {
		key, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("decode key file %s: %w", keyFilePath, err)
		}
		return key, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate credential key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.MkdirAll(filepath.Dir(keyFilePath), 0700); err != nil {
		return nil, fmt.Errorf("create credential key directory: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("persist generated credential key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns the
// base64-encoded (nonce || ciphertext) string stored in the database.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	out := append(append([]byte{}, nonce...), sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("decode stored secret: %w", err)
	}
	n := c.aead.NonceSize()
	if len(raw) < n {
		return "", fmt.Errorf("stored secret too short")
	}
	nonce, ciphertext := raw[:n], raw[n:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}
