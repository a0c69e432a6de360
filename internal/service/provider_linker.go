package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/internal/oauth"
	"github.com/englishai-chat/auth-service/internal/repository"
	"github.com/englishai-chat/auth-service/internal/utils"
)

// ProviderLinker resolves a completed provider handshake to a user record.
// Resolution order, first match wins:
//
//  1. an existing link for (provider, external id) — returning user
//  2. an existing user with the provider-supplied email — link the provider
//     to that account, trusting the provider's email verification
//  3. otherwise create a new user, synthesizing a placeholder email when the
//     provider did not supply one
//
// Linking by email trusts the provider to have verified the address it
// returns; a synthesized placeholder is never treated as verified.
type ProviderLinker struct {
	userRepo     repository.UserRepository
	identityRepo repository.ExternalIdentityRepository
	logger       *zap.Logger
}

// NewProviderLinker creates a new provider linker
func NewProviderLinker(
	userRepo repository.UserRepository,
	identityRepo repository.ExternalIdentityRepository,
	logger *zap.Logger,
) *ProviderLinker {
	return &ProviderLinker{
		userRepo:     userRepo,
		identityRepo: identityRepo,
		logger:       logger,
	}
}

// Resolve maps a provider profile to an existing or new user, updating the
// last-login timestamp on every path. Failures never leave a partially
// created user behind.
func (l *ProviderLinker) Resolve(ctx context.Context, profile *oauth.Profile) (*domain.User, error) {
	if profile == nil || profile.ExternalID == "" {
		return nil, fmt.Errorf("incomplete provider profile: %w", domain.ErrProviderAuthFailed)
	}

	// 1. Returning user for this external id
	identity, err := l.identityRepo.GetByProvider(ctx, profile.Provider, profile.ExternalID)
	if err == nil {
		user, err := l.userRepo.GetByID(ctx, identity.UserID)
		if err != nil {
			return nil, l.internal("failed to load linked user", err)
		}
		l.touchLastLogin(ctx, user)
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, l.internal("failed to look up external identity", err)
	}

	// 2. Link to an existing account by provider-supplied email
	if profile.Email != "" {
		email := utils.SanitizeEmail(profile.Email)
		user, err := l.userRepo.GetByEmail(ctx, email)
		if err == nil {
			return l.link(ctx, user, profile)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, l.internal("failed to look up user by email", err)
		}
	}

	// 3. Create a new user for this provider account
	return l.create(ctx, profile)
}

func (l *ProviderLinker) link(ctx context.Context, user *domain.User, profile *oauth.Profile) (*domain.User, error) {
	identity := &domain.ExternalIdentity{
		UserID:         user.ID,
		Provider:       profile.Provider,
		ProviderUserID: profile.ExternalID,
	}
	if profile.Email != "" {
		email := utils.SanitizeEmail(profile.Email)
		identity.Email = &email
	}

	if err := l.identityRepo.Create(ctx, identity); err != nil {
		return nil, l.internal("failed to link external identity", err)
	}

	// The provider vouches for the address; avatar merges only into a blank
	user.IsEmailVerified = true
	if user.AvatarURL == "" {
		user.AvatarURL = profile.AvatarURL
	}
	if err := l.userRepo.Update(ctx, user); err != nil {
		return nil, l.internal("failed to update linked user", err)
	}

	l.logger.Info("linked provider to existing account",
		zap.String("user_id", user.ID),
		zap.String("provider", profile.Provider),
	)

	l.touchLastLogin(ctx, user)
	return user, nil
}

func (l *ProviderLinker) create(ctx context.Context, profile *oauth.Profile) (*domain.User, error) {
	email := utils.SanitizeEmail(profile.Email)
	emailSupplied := email != ""
	if !emailSupplied {
		// LinkedIn may omit the email claim depending on granted scope
		email = fmt.Sprintf("%s_%s@%s", profile.Provider, profile.ExternalID, placeholderDomain)
	}

	now := time.Now()
	user := &domain.User{
		Name:            profile.Name,
		Email:           email,
		AvatarURL:       profile.AvatarURL,
		IsEmailVerified: emailSupplied,
		LastLoginAt:     &now,
	}

	if err := l.userRepo.Create(ctx, user); err != nil {
		// A concurrent callback for the same address can win the insert;
		// fall back to linking against the winner
		if emailSupplied && errors.Is(err, repository.ErrDuplicateEmail) {
			existing, getErr := l.userRepo.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, l.internal("failed to load user after duplicate insert", getErr)
			}
			return l.link(ctx, existing, profile)
		}
		return nil, l.internal("failed to create user from provider profile", err)
	}

	identity := &domain.ExternalIdentity{
		UserID:         user.ID,
		Provider:       profile.Provider,
		ProviderUserID: profile.ExternalID,
	}
	if emailSupplied {
		identity.Email = &email
	}
	if err := l.identityRepo.Create(ctx, identity); err != nil {
		return nil, l.internal("failed to create external identity", err)
	}

	l.logger.Info("created user from provider profile",
		zap.String("user_id", user.ID),
		zap.String("provider", profile.Provider),
	)

	return user, nil
}

func (l *ProviderLinker) touchLastLogin(ctx context.Context, user *domain.User) {
	if err := l.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		l.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	now := time.Now()
	user.LastLoginAt = &now
}

func (l *ProviderLinker) internal(msg string, err error) error {
	l.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, domain.ErrInternal)
}
