// Package models holds the persistent domain types shared by repositories,
// services and job processors.
package models

import (
	"log/slog"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/cryptox"
)

type ProviderType string

const (
	ProviderMock       ProviderType = "mock"
	ProviderCazoo      ProviderType = "cazoo"
	ProviderAutotrader ProviderType = "autotrader"
)

type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
)

const redacted = "[REDACTED]"

// Credentials is a decrypted provider secret bag (apiKey, accessToken,
// pageId, ...). It never prints or logs its values.
type Credentials map[string]string

func (c Credentials) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

func (c Credentials) String() string   { return redacted }
func (c Credentials) GoString() string { return redacted }

func (c Credentials) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// ProviderConnection is the stored record. EncryptedCredentials must never
// leave the service layer; use Info for anything externally visible.
type ProviderConnection struct {
	ID                   string
	DealerID             string
	ProviderType         ProviderType
	EncryptedCredentials cryptox.EncryptedBlob
	CreatedAt            time.Time
	LastSyncedAt         *time.Time
	LastSyncStatus       SyncStatus
	LastSyncError        string
	RevokedAt            *time.Time
}

func (c *ProviderConnection) Revoked() bool {
	return c.RevokedAt != nil
}

// Info projects the connection onto its safe, secret-free view.
func (c *ProviderConnection) Info() ConnectionInfo {
	return ConnectionInfo{
		ID:             c.ID,
		DealerID:       c.DealerID,
		ProviderType:   c.ProviderType,
		CreatedAt:      c.CreatedAt,
		LastSyncedAt:   c.LastSyncedAt,
		LastSyncStatus: c.LastSyncStatus,
		LastSyncError:  c.LastSyncError,
	}
}

// ConnectionInfo is the externally visible connection view. It has no
// field able to carry credential material.
type ConnectionInfo struct {
	ID             string       `json:"id"`
	DealerID       string       `json:"dealerId"`
	ProviderType   ProviderType `json:"providerType"`
	CreatedAt      time.Time    `json:"createdAt"`
	LastSyncedAt   *time.Time   `json:"lastSyncedAt,omitempty"`
	LastSyncStatus SyncStatus   `json:"lastSyncStatus"`
	LastSyncError  string       `json:"lastSyncError,omitempty"`
}
