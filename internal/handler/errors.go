package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/englishai-chat/auth-service/internal/domain"
	"github.com/englishai-chat/auth-service/internal/dto"
)

// Stable machine-checkable error codes returned in response bodies
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	ErrCodeUnauthenticated       = "UNAUTHENTICATED"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeInternal              = "INTERNAL"
)

// respondError maps a service error to an HTTP status and a stable error
// code. Internal failures get a canned message; nothing below the service
// boundary reaches the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeValidation,
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   ErrCodeAlreadyExists,
			Message: "User already exists with this email",
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   ErrCodeInvalidCredentials,
			Message: "Invalid email or password",
		})
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   ErrCodeInvalidOrExpiredToken,
			Message: "Invalid or expired token",
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   ErrCodeNotFound,
			Message: "No user found with this email address",
		})
	case errors.Is(err, domain.ErrProviderNotConfigured):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   ErrCodeProviderNotConfigured,
			Message: "This login provider is not available",
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   ErrCodeUnauthenticated,
			Message: "Invalid or expired token",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   ErrCodeInternal,
			Message: "Something went wrong. Please try again.",
		})
	}
}
