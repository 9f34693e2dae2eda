// Package oidc validates access tokens issued by the identity provider
// that fronts the directory's admin API.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWT validation errors.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidClaims   = errors.New("invalid claims")
	ErrMissingSubject  = errors.New("missing subject claim")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidIssuer   = errors.New("invalid issuer")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")
)

// TokenClaims represents validated JWT claims.
type TokenClaims struct {
	Subject   string   `json:"sub"`
	Email     string   `json:"email"`
	Username  string   `json:"preferred_username"`
	Roles     []string // extracted from realm_access.roles
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the token carries the given role.
func (c *TokenClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// JWTValidator validates bearer tokens offline against a cached JWKS.
type JWTValidator interface {
	// Validate validates token and returns claims.
	Validate(ctx context.Context, tokenString string) (*TokenClaims, error)

	// Close stops background JWKS refresh.
	Close() error
}

// JWTValidatorConfig contains configuration for JWTValidator.
type JWTValidatorConfig struct {
	JWKSURL         string
	Issuer          string
	Audience        string        // empty disables audience validation
	Leeway          time.Duration // clock skew tolerance
	RefreshInterval time.Duration // JWKS refresh interval
	Logger          *slog.Logger
}

// Default configuration values.
const (
	DefaultLeeway          = 30 * time.Second
	DefaultRefreshInterval = 1 * time.Hour
)

type jwtValidator struct {
	jwks   keyfunc.Keyfunc
	config JWTValidatorConfig
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewJWTValidator creates a new JWT validator with JWKS caching.
func NewJWTValidator(config JWTValidatorConfig) (JWTValidator, error) {
	if config.JWKSURL == "" {
		return nil, fmt.Errorf("%w: JWKSURL is required", ErrJWKSFetchFailed)
	}
	if config.Issuer == "" {
		return nil, fmt.Errorf("%w: Issuer is required", ErrJWKSFetchFailed)
	}

	if config.Leeway == 0 {
		config.Leeway = DefaultLeeway
	}
	if config.RefreshInterval == 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("initializing JWT validator",
		slog.String("jwks_url", config.JWKSURL),
		slog.Duration("refresh_interval", config.RefreshInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())

	storageOpts := jwkset.HTTPClientStorageOptions{
		Ctx:             ctx,
		RefreshInterval: config.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("failed to refresh JWKS", slog.Any("error", err))
		},
	}

	storage, err := jwkset.NewStorageFromHTTP(config.JWKSURL, storageOpts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrJWKSFetchFailed, err)
	}

	jwks, err := keyfunc.New(keyfunc.Options{
		Ctx:     ctx,
		Storage: storage,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrJWKSFetchFailed, err)
	}

	return &jwtValidator{
		jwks:   jwks,
		config: config,
		logger: logger,
		cancel: cancel,
	}, nil
}

// Validate validates token and returns claims.
func (v *jwtValidator) Validate(_ context.Context, tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithLeeway(v.config.Leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.config.Issuer),
	}

	if v.config.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		if errors.Is(err, jwt.ErrTokenMalformed) || errors.Is(err, jwt.ErrTokenUnverifiable) ||
			errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIssuer, err)
		}
		if errors.Is(err, jwt.ErrTokenInvalidAudience) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAudience, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return extractClaims(claims)
}

func extractClaims(claims jwt.MapClaims) (*TokenClaims, error) {
	tc := &TokenClaims{}

	tc.Subject, _ = claims["sub"].(string)
	if tc.Subject == "" {
		return nil, ErrMissingSubject
	}

	tc.Email, _ = claims["email"].(string)
	tc.Username, _ = claims["preferred_username"].(string)

	if realmAccess, realmOK := claims["realm_access"].(map[string]any); realmOK {
		if roles, rolesOK := realmAccess["roles"].([]any); rolesOK {
			tc.Roles = make([]string, 0, len(roles))
			for _, role := range roles {
				if r, roleOK := role.(string); roleOK {
					tc.Roles = append(tc.Roles, r)
				}
			}
		}
	}

	if iat, ok := claims["iat"].(float64); ok {
		tc.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return tc, nil
}

// Close stops background JWKS refresh.
func (v *jwtValidator) Close() error {
	v.logger.Info("closing JWT validator")
	if v.cancel != nil {
		v.cancel()
	}
	return nil
}
