package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/englishai-chat/auth-service/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "secret1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.Token)
	s.NotEmpty(authResp.User.ID)
	s.Equal("Ann", authResp.User.Name)
	s.Equal("ann@example.com", authResp.User.Email)
	s.False(authResp.User.IsEmailVerified)
	s.False(authResp.User.IsGuest)
	// SMTP is unconfigured in the test environment
	s.Equal("skipped", authResp.EmailVerificationStatus)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	req := dto.RegisterRequest{Name: "Ann", Email: "dup@example.com", Password: "secret1"}

	first := s.postJSON("/api/v1/auth/register", req)
	first.Body.Close()
	s.Equal(http.StatusCreated, first.StatusCode)

	req.Email = "Dup@Example.com" // case-insensitive duplicate
	second := s.postJSON("/api/v1/auth/register", req)
	defer second.Body.Close()

	s.Equal(http.StatusConflict, second.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(second.Body).Decode(&errResp))
	s.Equal("ALREADY_EXISTS", errResp.Error)
}

func (s *Suite) TestRegister_Validation() {
	cases := []dto.RegisterRequest{
		{Email: "ann@example.com", Password: "secret1"},        // no name
		{Name: "Ann", Password: "secret1"},                     // no email
		{Name: "Ann", Email: "not-an-email", Password: "abc1"}, // bad email
		{Name: "Ann", Email: "ann@example.com", Password: "short"},
	}

	for _, req := range cases {
		resp := s.postJSON("/api/v1/auth/register", req)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func (s *Suite) TestLogin_Success() {
	register := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name: "Ann", Email: "login@example.com", Password: "secret1",
	})
	register.Body.Close()
	s.Require().Equal(http.StatusCreated, register.StatusCode)

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "login@example.com", Password: "secret1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	s.NotEmpty(authResp.Token)
	s.Equal("login@example.com", authResp.User.Email)
	s.Empty(authResp.EmailVerificationStatus, "login reports no dispatch status")
}

func (s *Suite) TestLogin_WrongPasswordAndUnknownEmailLookAlike() {
	register := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name: "Ann", Email: "oracle@example.com", Password: "secret1",
	})
	register.Body.Close()

	wrongPass := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "oracle@example.com", Password: "wrongpw",
	})
	defer wrongPass.Body.Close()

	unknown := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "nobody@example.com", Password: "secret1",
	})
	defer unknown.Body.Close()

	s.Equal(http.StatusUnauthorized, wrongPass.StatusCode)
	s.Equal(http.StatusUnauthorized, unknown.StatusCode)

	var respA, respB dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(wrongPass.Body).Decode(&respA))
	s.Require().NoError(json.NewDecoder(unknown.Body).Decode(&respB))
	s.Equal(respA, respB, "responses must not reveal which emails exist")
}

func (s *Suite) TestGuestAccess() {
	resp := s.postJSON("/api/v1/auth/guest", struct{}{})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	s.NotEmpty(authResp.Token)
	s.True(authResp.User.IsGuest)
	s.Contains(authResp.User.Email, "guest_")

	// The guest token works on protected routes
	me := s.getWithToken("/api/v1/auth/me", authResp.Token)
	defer me.Body.Close()
	s.Equal(http.StatusOK, me.StatusCode)

	// But the placeholder identity cannot be logged into
	login := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: authResp.User.Email, Password: "anything",
	})
	login.Body.Close()
	s.Equal(http.StatusUnauthorized, login.StatusCode)
}

func (s *Suite) TestForgotPassword_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("NOT_FOUND", errResp.Error)
}

func (s *Suite) TestPasswordResetFlow() {
	register := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name: "Ann", Email: "reset@example.com", Password: "secret1",
	})
	register.Body.Close()
	s.Require().Equal(http.StatusCreated, register.StatusCode)

	forgot := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "reset@example.com",
	})
	forgot.Body.Close()
	s.Require().Equal(http.StatusOK, forgot.StatusCode)

	token := s.storedResetToken("reset@example.com")

	reset := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Token: token, NewPassword: "newpass1", ConfirmPassword: "newpass1",
	})
	reset.Body.Close()
	s.Equal(http.StatusOK, reset.StatusCode)

	// Old password is dead, new one works
	oldLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "reset@example.com", Password: "secret1",
	})
	oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	newLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "reset@example.com", Password: "newpass1",
	})
	newLogin.Body.Close()
	s.Equal(http.StatusOK, newLogin.StatusCode)

	// The token was consumed; replaying it fails
	replay := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Token: token, NewPassword: "another1", ConfirmPassword: "another1",
	})
	defer replay.Body.Close()
	s.Equal(http.StatusBadRequest, replay.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(replay.Body).Decode(&errResp))
	s.Equal("INVALID_OR_EXPIRED_TOKEN", errResp.Error)
}

func (s *Suite) TestResetPassword_MismatchedConfirmation() {
	resp := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Token: "whatever", NewPassword: "newpass1", ConfirmPassword: "different1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestVerifyEmailFlow() {
	register := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name: "Ann", Email: "verify@example.com", Password: "secret1",
	})
	register.Body.Close()
	s.Require().Equal(http.StatusCreated, register.StatusCode)

	token := s.storedVerificationToken("verify@example.com")

	verify := s.postJSON("/api/v1/auth/verify-email", dto.VerifyEmailRequest{Token: token})
	defer verify.Body.Close()
	s.Equal(http.StatusOK, verify.StatusCode)

	login := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email: "verify@example.com", Password: "secret1",
	})
	defer login.Body.Close()

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(login.Body).Decode(&authResp))
	s.True(authResp.User.IsEmailVerified)

	// Single use
	replay := s.postJSON("/api/v1/auth/verify-email", dto.VerifyEmailRequest{Token: token})
	replay.Body.Close()
	s.Equal(http.StatusBadRequest, replay.StatusCode)
}

func (s *Suite) TestGetMe() {
	register := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name: "Ann", Email: "getme@example.com", Password: "secret1",
	})
	defer register.Body.Close()

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(register.Body).Decode(&authResp))

	resp := s.getWithToken("/api/v1/auth/me", authResp.Token)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))
	s.Equal(authResp.User.ID, userResp.User.ID)
	s.Equal("getme@example.com", userResp.User.Email)
	s.Empty(userResp.Providers)
}

func (s *Suite) TestGetMe_NoToken() {
	resp := s.getWithToken("/api/v1/auth/me", "")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	resp := s.getWithToken("/api/v1/auth/me", "invalid-token")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("UNAUTHENTICATED", errResp.Error)
}

func (s *Suite) TestSocialRedirect_UnknownProvider() {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(s.BaseURL + "/api/v1/auth/github")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("PROVIDER_NOT_CONFIGURED", errResp.Error)
}

func (s *Suite) TestHealth() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
