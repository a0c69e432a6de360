package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Tokens   TokensConfig   `env:",prefix=TOKEN_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	SMTP     SMTPConfig     `env:",prefix=SMTP_"`
	OAuth    OAuthConfig    `env:",prefix=OAUTH_"`
	Frontend FrontendConfig `env:",prefix=FRONTEND_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=auth_service"`
	Password string `env:"PASSWORD,default=auth_service_password"`
	DBName   string `env:"DB,default=auth_service_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret             string   `env:"SECRET,required"`
	SessionTokenExpiry Duration `env:"SESSION_TOKEN_EXPIRY,default=7d"`
}

// TokensConfig holds lifetimes for the single-use secrets stored on the user
// record. These are looked up, not decoded, so they are not JWT concerns.
type TokensConfig struct {
	VerificationTTL Duration `env:"VERIFICATION_TTL,default=24h"`
	ResetTTL        Duration `env:"RESET_TTL,default=10m"`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// SMTPConfig configures outbound email. Missing credentials disable email
// dispatch entirely; they are not a startup failure.
type SMTPConfig struct {
	Host     string   `env:"HOST"`
	Port     int      `env:"PORT,default=587"`
	User     string   `env:"USER"`
	Password string   `env:"PASSWORD"`
	From     string   `env:"FROM,default=noreply@englishaichat.com"`
	Timeout  Duration `env:"TIMEOUT,default=5s"`
}

// Enabled reports whether email dispatch is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

// OAuthConfig configures social login providers. A provider with missing
// credentials is simply omitted from the enabled set.
type OAuthConfig struct {
	RedirectBaseURL      string `env:"REDIRECT_BASE_URL,default=http://localhost:8080"`
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	LinkedInClientID     string `env:"LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret string `env:"LINKEDIN_CLIENT_SECRET"`
}

type FrontendConfig struct {
	URL string `env:"URL,default=http://localhost:3000"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate JWT secret length
	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
