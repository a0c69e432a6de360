package repository

import (
	"context"

	"github.com/englishai-chat/auth-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, userID string) error

	// GetByVerificationToken returns the user holding an outstanding,
	// non-expired email verification token
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)

	// GetByResetToken returns the user holding an outstanding, non-expired
	// password reset token
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
}

// ExternalIdentityRepository defines methods for provider-link operations
type ExternalIdentityRepository interface {
	Create(ctx context.Context, identity *domain.ExternalIdentity) error
	GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.ExternalIdentity, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.ExternalIdentity, error)
}
