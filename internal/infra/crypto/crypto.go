// Package crypto provides at-rest encryption for key-value substrates.
package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/todo/internal/domain"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32

	// envelopePrefix marks values written by KV.
	envelopePrefix = "enc:v1:"
)

var (
	// ErrInvalidKey is returned when the encryption key is invalid.
	ErrInvalidKey = errors.New("invalid encryption key: must be 32 bytes (64 hex characters)")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// GenerateKey returns a new random key in the hex form accepted by NewEncryptor.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encryptor handles AES-256-GCM encryption.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor creates a new Encryptor with the given hex-encoded key.
// The key must be 64 hex characters (32 bytes).
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Encryptor{gcm: gcm}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a random nonce.
// Returns: nonce (12 bytes) + ciphertext + auth tag
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts ciphertext using AES-256-GCM.
// Expects: nonce (12 bytes) + ciphertext + auth tag
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce := ciphertext[:NonceSize]
	encrypted := ciphertext[NonceSize:]

	plaintext, err := e.gcm.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// Ensure KV implements domain.KVStore.
var _ domain.KVStore = (*KV)(nil)

// KV wraps a substrate so that values are encrypted before they reach it.
// Stored values are "enc:v1:" followed by base64 of the sealed bytes.
// Values without the prefix are returned unchanged, so an existing plaintext
// blob stays readable until it is next written.
type KV struct {
	inner domain.KVStore
	enc   *Encryptor
}

// NewKV creates an encrypting decorator around inner.
func NewKV(inner domain.KVStore, enc *Encryptor) *KV {
	return &KV{inner: inner, enc: enc}
}

// Get reads and decrypts the value for key.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	raw, found, err := k.inner.Get(ctx, key)
	if err != nil || !found {
		return raw, found, err
	}

	encoded, ok := strings.CutPrefix(raw, envelopePrefix)
	if !ok {
		return raw, true, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false, fmt.Errorf("decode %s: %w", key, ErrDecryptionFailed)
	}

	plain, err := k.enc.Decrypt(sealed)
	if err != nil {
		return "", false, fmt.Errorf("decrypt %s: %w", key, err)
	}
	return string(plain), true, nil
}

// Set encrypts value and stores it under key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	sealed, err := k.enc.Encrypt([]byte(value))
	if err != nil {
		return err
	}
	return k.inner.Set(ctx, key, envelopePrefix+base64.StdEncoding.EncodeToString(sealed))
}

// Remove deletes key from the wrapped substrate.
func (k *KV) Remove(ctx context.Context, key string) error {
	return k.inner.Remove(ctx, key)
}

// Lock forwards to the wrapped substrate when it supports locking.
func (k *KV) Lock(ctx context.Context) (func(), error) {
	if l, ok := k.inner.(domain.KVLocker); ok {
		return l.Lock(ctx)
	}
	return func() {}, nil
}
