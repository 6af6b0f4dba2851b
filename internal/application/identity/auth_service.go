package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // Duration to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles sign-in, sign-out and token refresh
type AuthService struct {
	userRepo    identity.UserRepository
	jwtService  *auth.JWTService
	sessions    auth.SessionStore
	revocations auth.RevocationList
	resolver    *identity.TenantResolver
	config      AuthServiceConfig
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	sessions auth.SessionStore,
	revocations auth.RevocationList,
	resolver *identity.TenantResolver,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		sessions:    sessions,
		revocations: revocations,
		resolver:    resolver,
		config:      config,
		logger:      logger,
	}
}

// Login authenticates by email and password, opens a server-side session
// and issues a token pair bound to it
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("Login attempt for unknown email", zap.String("email", email))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if user.IsLocked() {
		s.logger.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked. Please try again later")
	}
	if user.IsDeactivated() {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after repeated failures",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked. Please try again later")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tenantID := user.Tenant()
	session, err := s.sessions.Create(ctx, user.ID, user.Email, map[string]string{
		identity.MetadataTenantID: tenantID.String(),
	}, s.jwtService.RefreshTTL())
	if err != nil {
		s.logger.Error("Failed to create session", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create session", err)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:    user.ID,
		TenantID:  tenantID,
		Email:     user.Email,
		SessionID: session.ID,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()))

	return &LoginResult{
		TokenPair: *tokenPair,
		SessionID: session.ID,
		User:      toUserInfo(user),
	}, nil
}

// RefreshToken exchanges a refresh token for a new pair. The presented
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Debug("Refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	if claims.SessionID != "" {
		if _, err := s.sessions.Get(ctx, claims.SessionID); err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has ended. Please log in again")
			}
			return nil, err
		}
	}

	principal, err := claims.Principal()
	if err != nil {
		return nil, mapTokenError(err)
	}
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, _, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if claims.ID != "" {
		if err := s.revocations.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))

	return tokenPair, nil
}

// Logout revokes the access token and ends the session
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.revocations.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to revoke token", zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to revoke token", err)
		}
	}

	if input.SessionID != "" {
		if err := s.sessions.Delete(ctx, input.SessionID); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
			s.logger.Error("Failed to delete session", zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to end session", err)
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the calling user and the tenant its requests resolve to
func (s *AuthService) Me(ctx context.Context) (*CurrentUserResult, error) {
	scope, err := s.resolver.ResolveScope(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, scope.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	return &CurrentUserResult{
		User:     toUserInfo(user),
		TenantID: scope.TenantID,
	}, nil
}

// Register creates a login account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(email, input.Password, input.Name)
	if err != nil {
		return nil, err
	}
	if input.TenantID != nil && *input.TenantID != uuid.Nil {
		if err := user.JoinTenant(*input.TenantID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.Tenant().String()))

	info := toUserInfo(user)
	return &info, nil
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		TenantID:    user.Tenant(),
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		LastLoginAt: user.LastLoginAt,
	}
}

// mapTokenError maps JWT errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.WrapDomainError("TOKEN_ERROR", "Failed to refresh token", err)
	}
}
