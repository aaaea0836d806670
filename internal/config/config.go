package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Environment         string   `env:"ENVIRONMENT" envDefault:"development"`
	Port                int      `env:"PORT" envDefault:"8080"`
	DatabaseURL         string   `env:"DATABASE_URL"`
	RedisURL            string   `env:"REDIS_URL"`
	SessionSecrets      []string `env:"SESSION_SECRETS,required" envSeparator:","`
	SessionTTLHours     int      `env:"SESSION_TTL_HOURS" envDefault:"168"`
	LogLevel            string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string   `env:"LOG_FORMAT" envDefault:"json"`
	AdminEmail          string   `env:"ADMIN_EMAIL"`
	AdminPassword       string   `env:"ADMIN_PASSWORD"`
	AdminName           string   `env:"ADMIN_NAME" envDefault:"Admin"`
	UploadDir           string   `env:"UPLOAD_DIR" envDefault:"./data/uploads"`
	UploadMaxBytes      int64    `env:"UPLOAD_MAX_BYTES" envDefault:"26214400"`
	PublicBaseURL       string   `env:"PUBLIC_BASE_URL" envDefault:"/uploads"`
	StaticDir           string   `env:"STATIC_DIR" envDefault:"./static"`
	AllowedOrigins      []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	PublicReviewReads   bool     `env:"PUBLIC_REVIEW_READS" envDefault:"false"`
	PublicMediaReads    bool     `env:"PUBLIC_MEDIA_READS" envDefault:"false"`
	ResendAPIKey        string   `env:"RESEND_API_KEY"`
	ContactFromEmail    string   `env:"CONTACT_FROM_EMAIL"`
	ContactToEmail      string   `env:"CONTACT_TO_EMAIL"`
	BlobSweepGraceHours int      `env:"BLOB_SWEEP_GRACE_HOURS" envDefault:"24"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) BlobSweepGrace() time.Duration {
	return time.Duration(c.BlobSweepGraceHours) * time.Hour
}

// SigningSecrets returns the configured session secrets with blanks removed,
// newest first.
func (c *Config) SigningSecrets() []string {
	secrets := make([]string, 0, len(c.SessionSecrets))
	for _, s := range c.SessionSecrets {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

func (c *Config) MailEnabled() bool {
	return c.ResendAPIKey != "" && c.ContactFromEmail != "" && c.ContactToEmail != ""
}

func (c *Config) Validate(isProduction bool) error {
	secrets := c.SigningSecrets()
	if len(secrets) == 0 {
		return fmt.Errorf("SESSION_SECRETS must contain at least one secret")
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.AdminPassword != "" && len(c.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}

	if isProduction {
		for i, secret := range secrets {
			if err := validateSecret(fmt.Sprintf("SESSION_SECRETS[%d]", i), secret); err != nil {
				return err
			}
		}

		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if c.RedisURL == "" {
			log.Warn().Msg("REDIS_URL is empty in production: login rate limiting is per-instance only")
		} else if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if !c.MailEnabled() {
			log.Warn().Msg("contact mail is not configured in production: contact form disabled")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
