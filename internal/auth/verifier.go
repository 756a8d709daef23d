package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// JWTVerifier validates bearer tokens and extracts their claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)
	Close() error
}

// SupabaseJWTVerifier implements JWTVerifier using keys from Supabase's
// JWKS endpoint. Keys are cached and refreshed per HTTP cache headers.
type SupabaseJWTVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a verifier backed by the given JWKS endpoint.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT and returns its claims. Any failure collapses
// to ErrUnauthorized; details go to the log, not the caller.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks
	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		v.logger.Debug("token has invalid role", "role", claims.Role)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases verifier resources. keyfunc v3 manages its own lifecycle,
// so this exists for shutdown symmetry.
func (v *SupabaseJWTVerifier) Close() error {
	return nil
}
