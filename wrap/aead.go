package wrap

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/keywarden/keywarden/interfaces"
)

// AEADEncryptor wraps key material with XChaCha20-Poly1305 using a secret
// held outside the key repository (a scoped keyfile). A fresh random nonce
// is generated per wrap and prepended to the ciphertext.
type AEADEncryptor struct {
	aead  cipher.AEAD
	scope interfaces.WrapScope
}

// NewAEADEncryptor creates an encryptor from a 32-byte secret.
func NewAEADEncryptor(secret []byte, scope interfaces.WrapScope) (*AEADEncryptor, error) {
	if len(secret) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("wrap secret must be %d bytes, got %d", chacha20poly1305.KeySize, len(secret))
	}

	aead, err := chacha20poly1305.NewX(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}

	return &AEADEncryptor{aead: aead, scope: scope}, nil
}

// Wrap encrypts key material. Output format: [nonce][ciphertext+tag].
func (e *AEADEncryptor) Wrap(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Unwrap decrypts previously wrapped key material, authenticating it in
// the process.
func (e *AEADEncryptor) Unwrap(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20poly1305.NonceSizeX {
		return nil, errors.New("wrapped key material too short")
	}

	nonce := ciphertext[:chacha20poly1305.NonceSizeX]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key material: %w", err)
	}
	return plaintext, nil
}

// Scope reports the protection scope of the wrapping secret.
func (e *AEADEncryptor) Scope() interfaces.WrapScope {
	return e.scope
}
