// Package auth issues and verifies the HS256 bearer tokens accepted by the
// ops gRPC service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
)

// Claims carries the dealer the caller acts for.
type Claims struct {
	jwt.RegisteredClaims
	DealerID string `json:"dealerId"`
}

func GenerateToken(dealerID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	if dealerID == "" {
		return "", fmt.Errorf("%w: dealer id is required", common.ErrInvalidInput)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   dealerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		DealerID: dealerID,
	})

	return token.SignedString(secretKey)
}

// GetDealerIDFromToken verifies tokenString and returns its dealer id.
// Expired tokens fail with common.ErrTokenExpired, everything else with
// common.ErrInvalidToken.
func GetDealerIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.DealerID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.DealerID, nil
}
