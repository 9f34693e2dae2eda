package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdmon/uaa/internal/infrastructure/oidc"
)

// OIDCTokenValidator adapts the oidc JWT validator to the TokenValidator interface.
type OIDCTokenValidator struct {
	validator oidc.JWTValidator
}

// NewOIDCTokenValidator creates a TokenValidator backed by an OIDC JWT validator.
func NewOIDCTokenValidator(validator oidc.JWTValidator) *OIDCTokenValidator {
	return &OIDCTokenValidator{validator: validator}
}

// ValidateToken validates a bearer token and converts the claims.
func (v *OIDCTokenValidator) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := v.validator.Validate(ctx, token)
	if err != nil {
		return nil, mapOIDCError(err)
	}

	return &TokenClaims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// mapOIDCError converts oidc validation errors to middleware auth errors.
func mapOIDCError(err error) error {
	switch {
	case errors.Is(err, oidc.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, oidc.ErrMissingSubject),
		errors.Is(err, oidc.ErrInvalidClaims),
		errors.Is(err, oidc.ErrInvalidIssuer),
		errors.Is(err, oidc.ErrInvalidAudience),
		errors.Is(err, oidc.ErrInvalidToken):
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}
