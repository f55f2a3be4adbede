// Package token implements the bearer-token identity boundary. A token is
// issued after the external OAuth flow completes ("login gives us a user
// identity and an admin flag") and carries the requester claims the core
// consumes. The engine never re-derives the admin capability; it is fixed in
// the token at issuance.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"whitelist/internal/identity"
)

const defaultTTL = 24 * time.Hour

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Admin       bool   `json:"admin"`
	jwt.RegisteredClaims
}

// RevocationList answers whether a token id has been revoked (logout).
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Manager signs and validates session tokens.
type Manager struct {
	signingKey []byte
	revocation RevocationList
	ttl        time.Duration
}

func NewManager(signingKey string, revocation RevocationList) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		revocation: revocation,
		ttl:        defaultTTL,
	}
}

// Issue signs a token for the given requester. Used by the login callback
// and by tests.
func (m *Manager) Issue(requester identity.Requester, now time.Time) (string, error) {
	claims := Claims{
		Username:    requester.Username,
		DisplayName: requester.DisplayName,
		AvatarURL:   requester.AvatarURL,
		Admin:       requester.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   requester.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, checks the revocation list, and
// returns the requester it represents together with the token id.
func (m *Manager) Validate(ctx context.Context, tokenString string) (identity.Requester, string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		return identity.Requester{}, "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return identity.Requester{}, "", errors.New("invalid token")
	}

	if m.revocation != nil {
		revoked, err := m.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			return identity.Requester{}, "", fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return identity.Requester{}, "", errors.New("token revoked")
		}
	}

	return identity.Requester{
		ID:          claims.Subject,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
		IsAdmin:     claims.Admin,
	}, claims.ID, nil
}

// RevokeByID invalidates a token id for the remainder of the token lifetime.
func (m *Manager) RevokeByID(ctx context.Context, jti string) error {
	if m.revocation == nil || jti == "" {
		return nil
	}
	return m.revocation.Revoke(ctx, jti, m.ttl)
}
