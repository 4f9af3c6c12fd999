package auth

import (
	"fmt"
	"time"

	"workspace-chat/domain/chat"
	"workspace-chat/errors"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "workspace-chat"

// Claims is the payload of a session token.
type Claims struct {
	UserID      string   `json:"user_id" validate:"required"`
	WorkspaceID string   `json:"workspace_id" validate:"required"`
	Roles       []string `json:"roles" validate:"dive,oneof=member admin"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal attached to a connection.
type Identity struct {
	UserID      chat.UserID
	WorkspaceID chat.WorkspaceID
	Roles       []string
}

// TokenManager signs and checks HS256 tokens with a shared secret.
type TokenManager struct {
	key []byte
	ttl time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{key: []byte(secret), ttl: ttl}
}

// Generate signs a token for identity, valid for the manager ttl.
func (m *TokenManager) Generate(identity Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      string(identity.UserID),
		WorkspaceID: string(identity.WorkspaceID),
		Roles:       identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   string(identity.UserID),
		},
	}
	if err := ValidateClaims(*claims); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Validate checks signature, expiry and issuer and returns the identity.
// Every failure wraps ErrUnauthenticated.
func (m *TokenManager) Validate(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, jwt.ErrSignatureInvalid)
	}
	if err := ValidateClaims(*claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, err)
	}
	return Identity{
		UserID:      chat.UserID(claims.UserID),
		WorkspaceID: chat.WorkspaceID(claims.WorkspaceID),
		Roles:       claims.Roles,
	}, nil
}
