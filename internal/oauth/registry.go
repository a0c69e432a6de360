package oauth

import (
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/englishai-chat/auth-service/internal/config"
	"github.com/englishai-chat/auth-service/internal/domain"
)

const (
	googleUserInfoURL   = "https://openidconnect.googleapis.com/v1/userinfo"
	linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

// Registry holds the providers enabled by configuration. Providers are
// registered explicitly at construction time; a provider with missing
// credentials is simply absent.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry builds the enabled-provider set from configuration
func NewRegistry(cfg config.OAuthConfig) *Registry {
	r := &Registry{providers: make(map[string]*Provider)}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		r.providers[domain.ProviderGoogle] = &Provider{
			name: domain.ProviderGoogle,
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  callbackURL(cfg.RedirectBaseURL, domain.ProviderGoogle),
				Scopes:       []string{"openid", "profile", "email"},
			},
			userInfoURL: googleUserInfoURL,
			mapping:     oidcMapping,
		}
	}

	if cfg.LinkedInClientID != "" && cfg.LinkedInClientSecret != "" {
		r.providers[domain.ProviderLinkedIn] = &Provider{
			name: domain.ProviderLinkedIn,
			config: &oauth2.Config{
				ClientID:     cfg.LinkedInClientID,
				ClientSecret: cfg.LinkedInClientSecret,
				Endpoint:     endpoints.LinkedIn,
				RedirectURL:  callbackURL(cfg.RedirectBaseURL, domain.ProviderLinkedIn),
				Scopes:       []string{"openid", "profile", "email"},
			},
			userInfoURL: linkedinUserInfoURL,
			mapping:     oidcMapping,
		}
	}

	return r
}

// Get returns the named provider or ErrProviderNotConfigured
func (r *Registry) Get(name string) (*Provider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", name, domain.ErrProviderNotConfigured)
	}
	return provider, nil
}

// Enabled lists the names of the configured providers
func (r *Registry) Enabled() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

func callbackURL(base, provider string) string {
	return fmt.Sprintf("%s/api/v1/auth/%s/callback", base, provider)
}
