// Package payload seals and unseals the opaque reference token that
// accompanies every state-changing request for a speak-up entry. Clients
// treat the token as an uninterpreted capability string; only the server
// holds the key.
package payload

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer produces and opens payload tokens with a fixed symmetric key.
type Sealer struct {
	key []byte
}

// NewSealer creates a Sealer from a hex-encoded 32-byte key. An empty key
// generates a random one, which means tokens do not survive process restarts.
func NewSealer(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate payload seal key: %w", err)
		}
		return &Sealer{key: key}, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("payload seal key is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("payload seal key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Sealer{key: key}, nil
}

// Seal encodes a speak-up ID and company scope into an opaque token.
func (s *Sealer) Seal(speakUpID int64, companyID int) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize aead: %w", err)
	}

	plaintext := make([]byte, 16)
	binary.BigEndian.PutUint64(plaintext[0:8], uint64(speakUpID))
	binary.BigEndian.PutUint64(plaintext[8:16], uint64(companyID))

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decodes a token back into the speak-up ID and company scope it seals.
// Tampered or truncated tokens fail with an error.
func (s *Sealer) Open(token string) (speakUpID int64, companyID int, err error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to initialize aead: %w", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid payload token encoding: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return 0, 0, fmt.Errorf("payload token too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid payload token: %w", err)
	}
	if len(plaintext) != 16 {
		return 0, 0, fmt.Errorf("invalid payload token contents")
	}

	speakUpID = int64(binary.BigEndian.Uint64(plaintext[0:8]))
	companyID = int(binary.BigEndian.Uint64(plaintext[8:16]))
	return speakUpID, companyID, nil
}
