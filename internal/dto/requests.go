package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password reset confirmation
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// VerifyEmailRequest represents an email verification confirmation
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`

	// EmailVerificationStatus reflects only the verification email dispatch
	// outcome on registration: sent, skipped or failed
	EmailVerificationStatus string `json:"email_verification_status,omitempty"`
}

// UserInfo is the sanitized user projection included in responses. It never
// carries password hashes or outstanding token fields.
type UserInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatar_url"`
	IsEmailVerified bool   `json:"is_email_verified"`
	IsGuest         bool   `json:"is_guest"`
}

// UserResponse represents the current-user response
type UserResponse struct {
	User      UserInfo `json:"user"`
	Providers []string `json:"providers"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
