package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/englishai-chat/auth-service/internal/dto"
	"github.com/englishai-chat/auth-service/internal/oauth"
	"github.com/englishai-chat/auth-service/internal/service"
)

const stateCookieName = "oauth_state"
const stateCookieMaxAge = 600 // seconds

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	providers   *oauth.Registry
	frontendURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, providers *oauth.Registry, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		providers:   providers,
		frontendURL: frontendURL,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles user login
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GuestAccess handles guest account provisioning
// @Summary Create a guest account
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/guest [post]
func (h *AuthHandler) GuestAccess(c *gin.Context) {
	response, err := h.authService.GuestAccess(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgotPassword handles password reset requests
// @Summary Request a password reset email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Password reset email sent successfully",
	})
}

// ResetPassword handles password reset confirmations
// @Summary Reset password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Password reset successful. You can now log in with your new password.",
	})
}

// VerifyEmail handles email verification confirmations
// @Summary Verify email with a verification token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailRequest true "Verify email request"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetMe handles getting the current user profile
// @Summary Get current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   ErrCodeUnauthenticated,
			Message: "User ID not found in context",
		})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SocialRedirect starts the authorization-code dance by redirecting the
// browser to the provider's consent page
// @Summary Start a social login flow
// @Tags auth
// @Success 302
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/{provider} [get]
func (h *AuthHandler) SocialRedirect(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// SocialCallback completes the authorization-code dance. The browser is
// mid-navigation from the consent page, so both outcomes are redirects: the
// session token rides the success URL, failures land on the error page.
// @Summary Complete a social login flow
// @Tags auth
// @Success 302
// @Router /auth/{provider}/callback [get]
func (h *AuthHandler) SocialCallback(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Consent denied or provider-side failure
	if c.Query("error") != "" {
		h.redirectError(c)
		return
	}

	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || cookieState == "" || c.Query("state") != cookieState {
		h.redirectError(c)
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	profile, err := provider.ExchangeProfile(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.redirectError(c)
		return
	}

	token, err := h.authService.SocialLogin(c.Request.Context(), profile)
	if err != nil {
		h.redirectError(c)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth-success?token=%s", h.frontendURL, token))
}

func (h *AuthHandler) redirectError(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendURL+"/auth-error")
}
