package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProviderServer stands in for both the token endpoint and the userinfo
// endpoint of a provider.
func fakeProviderServer(t *testing.T, userInfoStatus int, userInfoBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userInfoStatus)
		fmt.Fprint(w, userInfoBody)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testProvider(server *httptest.Server) *Provider {
	return &Provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:  server.URL + "/auth",
				TokenURL: server.URL + "/token",
			},
			RedirectURL: "http://localhost:8080/api/v1/auth/google/callback",
			Scopes:      []string{"openid", "profile", "email"},
		},
		userInfoURL: server.URL + "/userinfo",
		mapping:     oidcMapping,
	}
}

func TestExchangeProfile(t *testing.T) {
	server := fakeProviderServer(t, http.StatusOK,
		`{"sub":"g-123","email":"ann@x.com","name":"Ann","picture":"https://lh3.example.com/ann.jpg"}`)
	provider := testProvider(server)

	profile, err := provider.ExchangeProfile(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "google", profile.Provider)
	assert.Equal(t, "g-123", profile.ExternalID)
	assert.Equal(t, "ann@x.com", profile.Email)
	assert.Equal(t, "Ann", profile.Name)
	assert.Equal(t, "https://lh3.example.com/ann.jpg", profile.AvatarURL)
}

func TestExchangeProfile_OptionalClaimsMayBeAbsent(t *testing.T) {
	server := fakeProviderServer(t, http.StatusOK, `{"sub":"li-789","name":"Bea"}`)
	provider := testProvider(server)

	profile, err := provider.ExchangeProfile(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "li-789", profile.ExternalID)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.AvatarURL)
}

func TestExchangeProfile_Failures(t *testing.T) {
	t.Run("empty code", func(t *testing.T) {
		server := fakeProviderServer(t, http.StatusOK, `{}`)
		_, err := testProvider(server).ExchangeProfile(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("exchange rejected", func(t *testing.T) {
		server := fakeProviderServer(t, http.StatusOK, `{}`)
		_, err := testProvider(server).ExchangeProfile(context.Background(), "bad-code")
		assert.Error(t, err)
	})

	t.Run("userinfo error status", func(t *testing.T) {
		server := fakeProviderServer(t, http.StatusUnauthorized, `{"error":"expired"}`)
		_, err := testProvider(server).ExchangeProfile(context.Background(), "good-code")
		assert.Error(t, err)
	})

	t.Run("missing subject claim", func(t *testing.T) {
		server := fakeProviderServer(t, http.StatusOK, `{"email":"ann@x.com"}`)
		_, err := testProvider(server).ExchangeProfile(context.Background(), "good-code")
		assert.ErrorContains(t, err, "sub")
	})
}

func TestAuthCodeURL_CarriesState(t *testing.T) {
	server := fakeProviderServer(t, http.StatusOK, `{}`)
	provider := testProvider(server)

	url := provider.AuthCodeURL("state-abc")
	assert.Contains(t, url, "state=state-abc")
	assert.Contains(t, url, "client_id=client-id")
}

func TestGenerateState_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := GenerateState()
		require.NoError(t, err)
		require.NotEmpty(t, state)
		require.False(t, seen[state], "state values must not repeat")
		seen[state] = true
	}
}
