package wrap

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden/keywarden/interfaces"
)

func testSecret(t *testing.T) []byte {
	t.Helper()
	secret := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, secret)
	require.NoError(t, err)
	return secret
}

func TestAEADEncryptor_Roundtrip(t *testing.T) {
	enc, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeUser)
	require.NoError(t, err)
	assert.Equal(t, interfaces.WrapScopeUser, enc.Scope())

	plaintext := []byte("key material")
	wrapped, err := enc.Wrap(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, wrapped)

	got, err := enc.Unwrap(wrapped)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAEADEncryptor_FreshNoncePerWrap(t *testing.T) {
	enc, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeMachine)
	require.NoError(t, err)

	first, err := enc.Wrap([]byte("key material"))
	require.NoError(t, err)
	second, err := enc.Wrap([]byte("key material"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(first, second), "each wrap must use a fresh nonce")
}

func TestAEADEncryptor_TamperDetected(t *testing.T) {
	enc, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeUser)
	require.NoError(t, err)

	wrapped, err := enc.Wrap([]byte("key material"))
	require.NoError(t, err)

	wrapped[len(wrapped)-1] ^= 0x01
	_, err = enc.Unwrap(wrapped)
	assert.Error(t, err)
}

func TestAEADEncryptor_WrongSecret(t *testing.T) {
	enc, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeUser)
	require.NoError(t, err)
	other, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeUser)
	require.NoError(t, err)

	wrapped, err := enc.Wrap([]byte("key material"))
	require.NoError(t, err)

	_, err = other.Unwrap(wrapped)
	assert.Error(t, err)
}

func TestAEADEncryptor_TruncatedCiphertext(t *testing.T) {
	enc, err := NewAEADEncryptor(testSecret(t), interfaces.WrapScopeUser)
	require.NoError(t, err)

	_, err = enc.Unwrap([]byte("short"))
	assert.Error(t, err)
}

func TestAEADEncryptor_BadSecretSize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := NewAEADEncryptor(make([]byte, size), interfaces.WrapScopeUser)
		assert.Error(t, err, "secret of %d bytes must be rejected", size)
	}
}
