package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/englishai-chat/auth-service/internal/config"
	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/internal/dto"
	"github.com/englishai-chat/auth-service/internal/mailer"
	"github.com/englishai-chat/auth-service/internal/oauth"
	"github.com/englishai-chat/auth-service/internal/repository"
	"github.com/englishai-chat/auth-service/internal/utils"
)

// placeholderDomain is used for generated guest emails and for provider
// profiles that come without an email address
const placeholderDomain = "temp.com"

// emailDispatchTimeout bounds the outbound email side call so it can never
// hold up the request beyond this window
const emailDispatchTimeout = 10 * time.Second

// guestSeq disambiguates guest accounts created in the same millisecond
var guestSeq atomic.Uint64

// authService implements AuthService interface
type authService struct {
	userRepo        repository.UserRepository
	identityRepo    repository.ExternalIdentityRepository
	linker          *ProviderLinker
	jwtManager      *utils.JWTManager
	mailer          mailer.Mailer
	logger          *zap.Logger
	bcryptCost      int
	verificationTTL time.Duration
	resetTTL        time.Duration
	frontendURL     string
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	jwtManager *utils.JWTManager,
	m mailer.Mailer,
	logger *zap.Logger,
	securityCfg config.SecurityConfig,
	tokensCfg config.TokensConfig,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:        repos.User,
		identityRepo:    repos.ExternalIdentity,
		linker:          NewProviderLinker(repos.User, repos.ExternalIdentity, logger),
		jwtManager:      jwtManager,
		mailer:          m,
		logger:          logger,
		bcryptCost:      securityCfg.BCryptCost,
		verificationTTL: tokensCfg.VerificationTTL.Duration,
		resetTTL:        tokensCfg.ResetTTL.Duration,
		frontendURL:     frontendURL,
	}
}

// Register creates a password-based user, mints a verification token and
// dispatches the verification email best-effort. The dispatch outcome is
// reported in the response but never fails the registration itself.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", domain.ErrValidation)
	}
	email := utils.SanitizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least %d characters long: %w",
			utils.MinPasswordLength, domain.ErrValidation)
	}

	// Fast duplicate check; the unique index still backstops a racing insert
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrAlreadyExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("failed to check user existence", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, s.internal("failed to hash password", err)
	}

	verificationToken, err := utils.GenerateSingleUseToken()
	if err != nil {
		return nil, s.internal("failed to generate verification token", err)
	}
	verificationExpiry := time.Now().Add(s.verificationTTL)

	user := &domain.User{
		Name:                       req.Name,
		Email:                      email,
		PasswordHash:               &passwordHash,
		IsEmailVerified:            false,
		EmailVerificationToken:     &verificationToken,
		EmailVerificationExpiresAt: &verificationExpiry,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrAlreadyExists)
		}
		return nil, s.internal("failed to create user", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email/%s", s.frontendURL, verificationToken)
	result := s.dispatchEmail(ctx, email, mailer.VerificationSubject,
		mailer.VerificationEmailHTML(user.Name, verifyURL))
	if result.Status == mailer.StatusFailed {
		s.logger.Warn("verification email failed but registration continued",
			zap.String("user_id", user.ID),
			zap.String("error", result.Error),
		)
	}

	token, err := s.jwtManager.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, s.internal("failed to generate session token", err)
	}

	return &dto.AuthResponse{
		Token:                   token,
		User:                    sanitizeUser(user),
		EmailVerificationStatus: result.Status,
	}, nil
}

// Login authenticates a password-based user. Unknown email, wrong password
// and guest accounts all fail identically so the API is not a user-existence
// oracle.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, s.internal("failed to get user", err)
	}

	if user.IsGuest || !user.HasPassword() {
		return nil, domain.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.jwtManager.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, s.internal("failed to generate session token", err)
	}

	return &dto.AuthResponse{Token: token, User: sanitizeUser(user)}, nil
}

// GuestAccess provisions an ephemeral guest account. The placeholder email
// combines unix millis with a process-wide counter, so concurrent calls
// cannot collide.
func (s *authService) GuestAccess(ctx context.Context) (*dto.AuthResponse, error) {
	seq := guestSeq.Add(1)
	millis := time.Now().UnixMilli()
	now := time.Now()

	user := &domain.User{
		Name:            fmt.Sprintf("Guest_%d_%d", millis, seq),
		Email:           fmt.Sprintf("guest_%d_%d@%s", millis, seq, placeholderDomain),
		IsGuest:         true,
		IsEmailVerified: true,
		LastLoginAt:     &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, s.internal("failed to create guest user", err)
	}

	token, err := s.jwtManager.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, s.internal("failed to generate session token", err)
	}

	return &dto.AuthResponse{Token: token, User: sanitizeUser(user)}, nil
}

// SocialLogin resolves a completed provider handshake to a user via the
// provider linker and issues a session token for the redirect hand-off
func (s *authService) SocialLogin(ctx context.Context, profile *oauth.Profile) (string, error) {
	user, err := s.linker.Resolve(ctx, profile)
	if err != nil {
		return "", err
	}

	token, err := s.jwtManager.GenerateSessionToken(user.ID)
	if err != nil {
		return "", s.internal("failed to generate session token", err)
	}

	return token, nil
}

// ForgotPassword mints a reset token, invalidating any outstanding one, and
// dispatches the reset email. Unlike registration, a failed dispatch fails
// the operation, since the email is its entire point.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user with email %s: %w", email, domain.ErrNotFound)
		}
		return s.internal("failed to get user", err)
	}

	// Guests have no password to reset and never surface their placeholder
	// address, so treat them as absent
	if user.IsGuest {
		return fmt.Errorf("no user with email %s: %w", email, domain.ErrNotFound)
	}

	resetToken, err := utils.GenerateSingleUseToken()
	if err != nil {
		return s.internal("failed to generate reset token", err)
	}
	resetExpiry := time.Now().Add(s.resetTTL)

	// Overwrites any prior outstanding token; at most one is valid at a time
	user.PasswordResetToken = &resetToken
	user.PasswordResetExpiresAt = &resetExpiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return s.internal("failed to store reset token", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, resetToken)
	result := s.dispatchEmail(ctx, user.Email, mailer.PasswordResetSubject,
		mailer.PasswordResetEmailHTML(user.Name, resetURL))
	if result.Status == mailer.StatusFailed {
		return s.internal("failed to send reset email", errors.New(result.Error))
	}

	return nil
}

// ResetPassword consumes a reset token: the new hash is written and both
// token fields are cleared in the same update, so the token cannot be
// replayed. No session token is issued; the caller logs in again.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.Token == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return fmt.Errorf("token, new password and confirmation are required: %w", domain.ErrValidation)
	}
	if req.NewPassword != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match: %w", domain.ErrValidation)
	}
	if !utils.ValidatePassword(req.NewPassword) {
		return fmt.Errorf("password must be at least %d characters long: %w",
			utils.MinPasswordLength, domain.ErrValidation)
	}

	user, err := s.userRepo.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return s.internal("failed to look up reset token", err)
	}

	passwordHash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return s.internal("failed to hash password", err)
	}

	user.PasswordHash = &passwordHash
	user.PasswordResetToken = nil
	user.PasswordResetExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return s.internal("failed to update password", err)
	}

	return nil
}

// VerifyEmail consumes an email verification token, completing the
// unverified-to-verified transition and clearing the token
func (s *authService) VerifyEmail(ctx context.Context, token string) (*dto.UserInfo, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, s.internal("failed to look up verification token", err)
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, s.internal("failed to mark email verified", err)
	}

	info := sanitizeUser(user)
	return &info, nil
}

// GetUser resolves a bearer-token subject to the sanitized user projection.
// The user may have been removed after token issuance; tokens are stateless
// and are not revoked on deletion.
func (s *authService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, s.internal("failed to get user", err)
	}

	identities, err := s.identityRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, s.internal("failed to get linked providers", err)
	}

	providers := make([]string, 0, len(identities))
	for _, identity := range identities {
		providers = append(providers, identity.Provider)
	}

	return &dto.UserResponse{
		User:      sanitizeUser(user),
		Providers: providers,
	}, nil
}

// ValidateToken verifies a session token. All failure modes collapse to
// ErrUnauthenticated so callers cannot tell an expired token from a forged
// one.
func (s *authService) ValidateToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	return claims, nil
}

// dispatchEmail sends an email with its own bounded deadline so a slow SMTP
// server cannot stall the request
func (s *authService) dispatchEmail(ctx context.Context, to, subject, html string) mailer.Result {
	ctx, cancel := context.WithTimeout(ctx, emailDispatchTimeout)
	defer cancel()
	return s.mailer.Send(ctx, to, subject, html)
}

// internal hides store and crypto failures behind ErrInternal, keeping the
// detail in logs only
func (s *authService) internal(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, domain.ErrInternal)
}

// sanitizeUser builds the response projection; hashes and token fields never
// leave the service
func sanitizeUser(user *domain.User) dto.UserInfo {
	return dto.UserInfo{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		AvatarURL:       user.AvatarURL,
		IsEmailVerified: user.IsEmailVerified,
		IsGuest:         user.IsGuest,
	}
}
