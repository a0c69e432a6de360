package mailer

import "fmt"

// Email subjects
const (
	VerificationSubject  = "Verify Your Email - EnglishAI Chat"
	PasswordResetSubject = "Password Reset - EnglishAI Chat"
)

// VerificationEmailHTML renders the email-verification message body
func VerificationEmailHTML(name, verifyURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Welcome to EnglishAI Chat!</h2>
			<p>Hi %s,</p>
			<p>Thank you for joining EnglishAI Chat! Please click the link below to verify your email address:</p>
			<div style="margin: 30px 0;">
				<a href="%s" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">
					Verify Email Address
				</a>
			</div>
			<p>If you didn't create this account, please ignore this email.</p>
			<p>Best regards,<br>The EnglishAI Chat Team</p>
		</div>
	`, name, verifyURL)
}

// PasswordResetEmailHTML renders the password-reset message body
func PasswordResetEmailHTML(name, resetURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Password Reset Request</h2>
			<p>Hi %s,</p>
			<p>You requested a password reset for your EnglishAI Chat account.</p>
			<p>Click the button below to reset your password:</p>
			<div style="margin: 30px 0;">
				<a href="%s" style="background-color: #dc3545; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">
					Reset Password
				</a>
			</div>
			<p>This link will expire in 10 minutes.</p>
			<p>If you didn't request this password reset, please ignore this email.</p>
			<p>Best regards,<br>The EnglishAI Chat Team</p>
		</div>
	`, name, resetURL)
}
