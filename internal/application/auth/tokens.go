package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// TokenType distinguishes access from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims carried by both token types.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates JWT token pairs. Logged-out tokens
// go on a cache-backed denylist until they expire on their own.
type TokenService struct {
	secret            []byte
	issuer            string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	cache             outbound.CacheRepository
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.Config, cache outbound.CacheRepository) *TokenService {
	return &TokenService{
		secret:            []byte(cfg.Auth.JWTSecret),
		issuer:            cfg.Auth.Issuer,
		accessExpiration:  cfg.Auth.JWTExpiration,
		refreshExpiration: cfg.Auth.RefreshExpiration,
		cache:             cache,
	}
}

// AccessExpiration returns the access token lifetime.
func (s *TokenService) AccessExpiration() time.Duration {
	return s.accessExpiration
}

// GeneratePair issues an access and a refresh token for the user.
func (s *TokenService) GeneratePair(userID uuid.UUID, email string) (access string, refresh string, err error) {
	access, err = s.generate(userID, email, TokenTypeAccess, s.accessExpiration)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.generate(userID, email, TokenTypeRefresh, s.refreshExpiration)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *TokenService) generate(userID uuid.UUID, email string, tokenType TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewInternal("failed to sign token").WithCause(err)
	}
	return signed, nil
}

// Validate parses the token, checks the signature and expiry, rejects
// denylisted tokens, and enforces the expected token type.
func (s *TokenService) Validate(ctx context.Context, tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid or expired token").WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewUnauthorized("Invalid token claims")
	}
	if claims.TokenType != expected {
		return nil, apperrors.NewUnauthorized(fmt.Sprintf("Expected %s token", expected))
	}

	denied, err := s.cache.Exists(ctx, denylistKey(claims.ID))
	if err == nil && denied {
		return nil, apperrors.NewUnauthorized("Token has been revoked")
	}

	return claims, nil
}

// Revoke puts the token on the denylist until it would have expired.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, denylistKey(claims.ID), []byte("1"), ttl)
}

func denylistKey(jti string) string {
	return "auth:denylist:" + jti
}
