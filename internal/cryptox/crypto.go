// Package cryptox implements the credential vault: AES-256-GCM encryption of
// provider credentials under a key derived from the deployment master secret.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	keyLength = 32
	ivLength  = 12
	tagLength = 16
)

// EncryptedBlob is the stored form of one encryption: hex-encoded ciphertext,
// initialization vector and GCM authentication tag.
type EncryptedBlob struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	AuthTag    string `json:"authTag"`
}

// IsZero reports whether the blob holds nothing (e.g. after revocation).
func (b EncryptedBlob) IsZero() bool {
	return b.Ciphertext == "" && b.IV == "" && b.AuthTag == ""
}

// DecryptionError is returned when a blob cannot be opened: malformed
// encoding, wrong key, or a ciphertext/iv/tag that fails authentication.
// It matches common.ErrDecryption via errors.Is.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return common.ErrDecryption.Error() + ": " + e.Reason
}

func (e *DecryptionError) Unwrap() error {
	return common.ErrDecryption
}

// DeriveKey turns the master secret into a 256-bit AES key. The salt is the
// SHA-256 of the secret, so the same secret always yields the same key.
func DeriveKey(secret []byte) []byte {
	salt := sha256.Sum256(secret)
	return argon2.IDKey(secret, salt[:], 1, 64*1024, 4, keyLength)
}

// Vault holds a derived key so the KDF cost is paid once per process.
type Vault struct {
	aead cipher.AEAD
}

func NewVault(secret string) (*Vault, error) {
	if secret == "" {
		return nil, common.ErrEmptySecret
	}

	key := DeriveKey([]byte(secret))
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random IV.
func (v *Vault) Encrypt(plaintext []byte) (*EncryptedBlob, error) {
	iv := common.GenerateRandByteArray(ivLength)

	sealed := v.aead.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - tagLength

	return &EncryptedBlob{
		Ciphertext: hex.EncodeToString(sealed[:split]),
		IV:         hex.EncodeToString(iv),
		AuthTag:    hex.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt opens blob. Any failure is a *DecryptionError.
func (v *Vault) Decrypt(blob *EncryptedBlob) ([]byte, error) {
	if blob == nil || blob.IsZero() {
		return nil, &DecryptionError{Reason: "empty blob"}
	}

	ciphertext, err := hex.DecodeString(blob.Ciphertext)
	if err != nil {
		return nil, &DecryptionError{Reason: "malformed ciphertext"}
	}
	iv, err := hex.DecodeString(blob.IV)
	if err != nil || len(iv) != ivLength {
		return nil, &DecryptionError{Reason: "malformed iv"}
	}
	tag, err := hex.DecodeString(blob.AuthTag)
	if err != nil || len(tag) != tagLength {
		return nil, &DecryptionError{Reason: "malformed auth tag"}
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := v.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, &DecryptionError{Reason: "authentication failed"}
	}

	return plaintext, nil
}

// EncryptEntry serializes entry to JSON and encrypts it. The intermediate
// plaintext is wiped before returning.
func (v *Vault) EncryptEntry(entry any) (*EncryptedBlob, error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)

	return v.Encrypt(plaintext)
}

// DecryptEntry decrypts blob and unmarshals the JSON plaintext into out.
func (v *Vault) DecryptEntry(blob *EncryptedBlob, out any) error {
	plaintext, err := v.Decrypt(blob)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, out); err != nil {
		return &DecryptionError{Reason: "malformed payload"}
	}
	return nil
}

// Encrypt is a one-shot helper that derives the key from masterSecret.
func Encrypt(plaintext []byte, masterSecret string) (*EncryptedBlob, error) {
	v, err := NewVault(masterSecret)
	if err != nil {
		return nil, err
	}
	return v.Encrypt(plaintext)
}

// Decrypt is the one-shot counterpart of Encrypt.
func Decrypt(blob *EncryptedBlob, masterSecret string) ([]byte, error) {
	v, err := NewVault(masterSecret)
	if err != nil {
		return nil, err
	}
	return v.Decrypt(blob)
}
