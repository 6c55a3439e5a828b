// Package common defines shared constants and sentinel errors used across
// the vault, sync and job layers of Shiftly. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyExists  = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Vault errors. Decryption failures never carry ciphertext or key material.
	ErrDecryption  = errors.New("credential decryption failed")
	ErrEmptySecret = errors.New("encryption secret is empty")

	// Inventory and sync errors.
	ErrInvalidVehicle      = errors.New("vehicle requires dealer id and provider id")
	ErrAdapterConnection   = errors.New("provider connection test failed")
	ErrPartialImport       = errors.New("vehicle import failed")
	ErrUnsupportedProvider = errors.New("unsupported provider type")

	// Posting errors.
	ErrPostingFailure      = errors.New("platform rejected post")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
