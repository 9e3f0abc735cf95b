// Package auth verifies bearer tokens issued by Supabase Auth.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"resumebank/internal/domain"
)

// Claims is the subset of Supabase access-token claims the API relies on
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// Verifier validates a bearer token and returns its claims
type Verifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// JWTVerifier checks signatures against the project's JWKS.
// Keys are cached and refreshed by keyfunc.
type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	logger  *slog.Logger
}

// NewJWTVerifier fetches the key set at jwksURL
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return &JWTVerifier{keyFunc: jwks.Keyfunc, logger: logger}, nil
}

// VerifyToken rejects invalid, expired, anonymous or unexpectedly signed tokens
// with domain.ErrUnauthorized
func (v *JWTVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	if claims.Role != "authenticated" {
		v.logger.Debug("token has non-user role", "role", claims.Role, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
