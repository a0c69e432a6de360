package domain

import "time"

// Identity provider names supported for social login
const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

// User represents a principal in the system. A user may authenticate with a
// password, through one or more external identity providers, or be an
// ephemeral guest.
type User struct {
	ID                         string     `json:"id" db:"id"`
	Email                      string     `json:"email" db:"email"`
	PasswordHash               *string    `json:"-" db:"password_hash"`
	Name                       string     `json:"name" db:"name"`
	AvatarURL                  string     `json:"avatar_url" db:"avatar_url"`
	IsGuest                    bool       `json:"is_guest" db:"is_guest"`
	IsEmailVerified            bool       `json:"is_email_verified" db:"is_email_verified"`
	EmailVerificationToken     *string    `json:"-" db:"email_verification_token"`
	EmailVerificationExpiresAt *time.Time `json:"-" db:"email_verification_expires_at"`
	PasswordResetToken         *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt     *time.Time `json:"-" db:"password_reset_expires_at"`
	LastLoginAt                *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt                  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ExternalIdentity links a user to an account at an external identity
// provider. The (provider, provider_user_id) pair is unique system-wide.
type ExternalIdentity struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Provider       string    `json:"provider" db:"provider"` // google, linkedin
	ProviderUserID string    `json:"provider_user_id" db:"provider_user_id"`
	Email          *string   `json:"email" db:"email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
