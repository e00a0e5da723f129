// Package crypto implements at-rest PII encryption for PROV-R authorization
// codes and bank account numbers (spec §4.10): AES-256-GCM, keyed by the
// PII_ENCRYPTION_KEY environment secret (mirroring the teacher's
// PAYMENT_SYNC_ENCRYPTION_KEY convention).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/creatorpay/platform/internal/errs"
)

// Box encrypts and decrypts PII fields with a single AES-256-GCM key.
type Box struct {
	gcm cipher.AEAD
}

// NewBox builds a Box from a 32-byte key (as produced by, e.g., a KMS data
// key or a random secret configured via PII_ENCRYPTION_KEY).
func NewBox(key []byte) (*Box, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "crypto: invalid key", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "crypto: gcm init failed", err)
	}
	return &Box{gcm: gcm}, nil
}

// Seal encrypts plaintext, returning nonce||ciphertext.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errs.Wrap(errs.Internal, "crypto: nonce generation failed", err)
	}
	return b.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal.
func (b *Box) Open(sealed []byte) ([]byte, error) {
	nonceSize := b.gcm.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errs.New(errs.Internal, "crypto: ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := b.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "crypto: decryption failed", err)
	}
	return plaintext, nil
}

// Last4 returns the last 4 characters of a sensitive string for safe display
// in logs and UI, per spec §4.10.
func Last4(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

// EncodeHex is a convenience for storing sealed bytes as text columns.
func EncodeHex(sealed []byte) string { return hex.EncodeToString(sealed) }

// DecodeHex reverses EncodeHex.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "crypto: invalid hex", err)
	}
	return b, nil
}
