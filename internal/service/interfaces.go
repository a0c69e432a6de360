package service

import (
	"context"

	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/internal/dto"
	"github.com/englishai-chat/auth-service/internal/oauth"
)

// AuthService defines the public authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GuestAccess(ctx context.Context) (*dto.AuthResponse, error)
	SocialLogin(ctx context.Context, profile *oauth.Profile) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	VerifyEmail(ctx context.Context, token string) (*dto.UserInfo, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
