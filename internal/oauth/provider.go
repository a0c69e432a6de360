package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Profile is the normalized result of a completed provider handshake
type Profile struct {
	Provider   string
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// attributeMapping names the userinfo claims a provider uses for each
// profile field. Both Google and LinkedIn serve OIDC-style userinfo
// documents, so the defaults match standard claims.
type attributeMapping struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

var oidcMapping = attributeMapping{
	ExternalID: "sub",
	Email:      "email",
	Name:       "name",
	AvatarURL:  "picture",
}

// Provider wraps an oauth2.Config plus the userinfo endpoint needed to turn
// an authorization code into a Profile
type Provider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	mapping     attributeMapping
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL returns the provider consent-page URL for a login attempt
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeProfile exchanges an authorization code for a token, fetches the
// userinfo document and normalizes it. Any failure leaves no trace in the
// store; the caller maps errors to the provider-failure redirect.
func (p *Provider) ExchangeProfile(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	profile := &Profile{
		Provider:   p.name,
		ExternalID: getStringValue(userInfo, p.mapping.ExternalID),
		Email:      getStringValue(userInfo, p.mapping.Email),
		Name:       getStringValue(userInfo, p.mapping.Name),
		AvatarURL:  getStringValue(userInfo, p.mapping.AvatarURL),
	}

	if profile.ExternalID == "" {
		return nil, fmt.Errorf("user info is missing the %s claim", p.mapping.ExternalID)
	}

	return profile, nil
}

func getStringValue(m map[string]interface{}, key string) string {
	if key == "" {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
