package cryptox

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "dev-encryption-secret"

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := NewVault(testSecret)
	require.NoError(t, err)
	return v
}

func TestDeriveKey_Deterministic(t *testing.T) {
	key1 := DeriveKey([]byte(testSecret))
	key2 := DeriveKey([]byte(testSecret))

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same key for same secret, got different")
	}
	if len(key1) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key1))
	}
}

func TestDeriveKey_DifferentSecrets(t *testing.T) {
	key1 := DeriveKey([]byte("secret-1"))
	key2 := DeriveKey([]byte("secret-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different keys for different secrets, got same")
	}
}

func TestNewVault_EmptySecret(t *testing.T) {
	_, err := NewVault("")
	assert.ErrorIs(t, err, common.ErrEmptySecret)
}

func TestVault_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "api key", plaintext: []byte(`{"apiKey":"sk_live_123"}`)},
		{name: "empty", plaintext: []byte{}},
		{name: "binary", plaintext: []byte{0, 1, 2, 254, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := v.Encrypt(tt.plaintext)
			require.NoError(t, err)

			got, err := v.Decrypt(blob)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plaintext, got))
		})
	}
}

func TestVault_FreshIVPerCall(t *testing.T) {
	v := newTestVault(t)
	plaintext := []byte(`{"apiKey":"same"}`)

	b1, err := v.Encrypt(plaintext)
	require.NoError(t, err)
	b2, err := v.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, b1.IV, b2.IV)
	assert.NotEqual(t, b1.Ciphertext, b2.Ciphertext)

	iv, err := hex.DecodeString(b1.IV)
	require.NoError(t, err)
	assert.Len(t, iv, 12)

	tag, err := hex.DecodeString(b1.AuthTag)
	require.NoError(t, err)
	assert.Len(t, tag, 16)
}

func flipFirstByte(t *testing.T, h string) string {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	b[0] ^= 0xff
	return hex.EncodeToString(b)
}

func TestVault_TamperDetection(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		name   string
		tamper func(b *EncryptedBlob)
	}{
		{name: "ciphertext", tamper: func(b *EncryptedBlob) { b.Ciphertext = flipFirstByte(t, b.Ciphertext) }},
		{name: "iv", tamper: func(b *EncryptedBlob) { b.IV = flipFirstByte(t, b.IV) }},
		{name: "auth tag", tamper: func(b *EncryptedBlob) { b.AuthTag = flipFirstByte(t, b.AuthTag) }},
		{name: "non-hex ciphertext", tamper: func(b *EncryptedBlob) { b.Ciphertext = "zz" }},
		{name: "short iv", tamper: func(b *EncryptedBlob) { b.IV = "00" }},
		{name: "wiped", tamper: func(b *EncryptedBlob) { *b = EncryptedBlob{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := v.Encrypt([]byte(`{"apiKey":"sk_live_123"}`))
			require.NoError(t, err)

			tt.tamper(blob)

			_, err = v.Decrypt(blob)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrDecryption))

			var de *DecryptionError
			assert.True(t, errors.As(err, &de))
			assert.NotContains(t, err.Error(), "sk_live_123")
		})
	}
}

func TestDecrypt_WrongSecret(t *testing.T) {
	blob, err := Encrypt([]byte("payload"), "secret-a")
	require.NoError(t, err)

	_, err = Decrypt(blob, "secret-b")
	assert.ErrorIs(t, err, common.ErrDecryption)

	got, err := Decrypt(blob, "secret-a")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestVault_EntryRoundTrip(t *testing.T) {
	v := newTestVault(t)

	in := map[string]string{"apiKey": "k-1", "dealerId": "d-9"}
	blob, err := v.EncryptEntry(in)
	require.NoError(t, err)
	assert.False(t, strings.Contains(blob.Ciphertext, "k-1"))

	out := map[string]string{}
	require.NoError(t, v.DecryptEntry(blob, &out))
	assert.Equal(t, in, out)
}
