package tokenstore

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealerInfo = "wellportal token store v1"

var errShortBlob = errors.New("tokenstore: sealed blob too short")

// Sealer encrypts session blobs at rest with XChaCha20-Poly1305. The
// associated data binds each blob to its key so blobs cannot be swapped
// between sessions.
type Sealer struct {
	key []byte
}

// NewSealer derives the AEAD key from secret with HKDF-SHA256. An empty
// secret yields a random key, so sealed sessions die with the process.
func NewSealer(secret string) (*Sealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if secret == "" {
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("generate sealer key: %w", err)
		}
		return &Sealer{key: key}, nil
	}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealerInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive sealer key: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Seal returns nonce||ciphertext.
func (s *Sealer) Seal(plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, ad), nil
}

// Open reverses Seal.
func (s *Sealer) Open(blob, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, errShortBlob
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, ad)
}
