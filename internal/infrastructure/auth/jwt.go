package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/infrastructure/config"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims are the invoicer JWT claims.
// An empty TenantID means the user is its own tenant.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string    `json:"user_id"`
	TenantID     string    `json:"tenant_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	SessionID    string    `json:"sid,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// TokenPair is returned by sign-in and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// tokenSpec is the signing key and lifetime of one token type
type tokenSpec struct {
	kind   TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService signs and verifies HS256 token pairs
type JWTService struct {
	access          tokenSpec
	refresh         tokenSpec
	issuer          string
	maxRefreshCount int
	parser          *jwt.Parser
}

// NewJWTService builds the service from config; refresh tokens share the
// access secret unless RefreshSecret is set.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		access:          tokenSpec{kind: TokenTypeAccess, secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
		refresh:         tokenSpec{kind: TokenTypeRefresh, secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		parser:          jwt.NewParser(opts...),
	}
}

// GenerateTokenInput identifies who a token pair is issued to
type GenerateTokenInput struct {
	UserID    uuid.UUID
	TenantID  uuid.UUID // uuid.Nil when the user is its own tenant
	Email     string
	SessionID string
}

// GenerateTokenPair issues a fresh pair at refresh count zero
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issuePair(input, 0)
}

func (s *JWTService) issuePair(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	base := Claims{
		UserID:    input.UserID.String(),
		SessionID: input.SessionID,
	}
	if input.TenantID != uuid.Nil {
		base.TenantID = input.TenantID.String()
	}

	access := base
	access.Email = input.Email
	accessToken, err := s.sign(s.access, access, now)
	if err != nil {
		return nil, err
	}

	refresh := base
	refresh.RefreshCount = refreshCount
	refreshToken, err := s.sign(s.refresh, refresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.access.ttl),
		RefreshTokenExpiresAt: now.Add(s.refresh.ttl),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(spec tokenSpec, claims Claims, now time.Time) (string, error) {
	claims.TokenType = spec.kind
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(spec.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(spec.secret)
}

// ValidateAccessToken verifies an access token and returns its claims
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.verify(s.access, token)
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.verify(s.refresh, token)
}

func (s *JWTService) verify(spec tokenSpec, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return spec.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.TokenType != spec.kind {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := claims.Principal(); err != nil {
		return nil, err
	}
	return claims, nil
}

// RefreshTokenPair trades a refresh token for a new pair on the same session.
// It returns the claims of the consumed token so the caller can revoke it.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}
	principal, err := claims.Principal()
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(GenerateTokenInput{
		UserID:    principal.ID,
		TenantID:  principal.TenantID,
		Email:     principal.Email,
		SessionID: claims.SessionID,
	}, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// AccessTTL is the lifetime of issued access tokens
func (s *JWTService) AccessTTL() time.Duration { return s.access.ttl }

// RefreshTTL is the lifetime of issued refresh tokens
func (s *JWTService) RefreshTTL() time.Duration { return s.refresh.ttl }

// Principal converts the claims into the identity used for tenant resolution
func (c *Claims) Principal() (*identity.Principal, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, ErrInvalidClaims
	}
	p := &identity.Principal{ID: userID, Email: c.Email}
	if c.TenantID == "" {
		return p, nil
	}
	if p.TenantID, err = uuid.Parse(c.TenantID); err != nil {
		return nil, ErrInvalidClaims
	}
	return p, nil
}

// RemainingTTL is the time left before the token expires, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
