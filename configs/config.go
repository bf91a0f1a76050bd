package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	StaticDir   string
	PublicURL   string
	CORSOrigins []string

	MongoURI            string
	MongoDBName         string
	MongoConnectTimeout time.Duration

	SendgridAPIKey    string
	EmailUser         string
	EmailEUResidency  bool
	NotifyRegistrants bool

	StripeSecretKey     string
	StripeWebhookSecret string

	AllowDegradedRegistration bool
	LegacyFallbackChecks      bool
	SeedFallback              bool
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// DotEnvFiles are loaded in order, missing files are skipped.
var DotEnvFiles = []string{".env", "sendgrid.env"}

// Load reads the environment. Local .env files are skipped on hosted platforms
// (VERCEL set) where variables are injected.
func Load() (*Config, error) {
	if os.Getenv("VERCEL") == "" {
		for _, path := range DotEnvFiles {
			err := godotenv.Load(path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STATIC_DIR", ".")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB_NAME", "campus")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second)

	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_EU_RESIDENCY", false)
	v.SetDefault("NOTIFY_REGISTRANTS", false)

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")

	v.SetDefault("ALLOW_DEGRADED_REGISTRATION", true)
	v.SetDefault("LEGACY_FALLBACK_CHECKS", false)
	v.SetDefault("SEED_FALLBACK", true)

	// NODE_ENV is what older deployments set.
	_ = v.BindEnv("ENV", "ENV", "NODE_ENV")
	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		StaticDir:   v.GetString("STATIC_DIR"),
		PublicURL:   strings.TrimSuffix(v.GetString("PUBLIC_URL"), "/"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		MongoURI:            v.GetString("MONGO_URI"),
		MongoDBName:         v.GetString("MONGO_DB_NAME"),
		MongoConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),

		SendgridAPIKey:    v.GetString("SENDGRID_API_KEY"),
		EmailUser:         v.GetString("EMAIL_USER"),
		EmailEUResidency:  v.GetBool("EMAIL_EU_RESIDENCY"),
		NotifyRegistrants: v.GetBool("NOTIFY_REGISTRANTS"),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),

		AllowDegradedRegistration: v.GetBool("ALLOW_DEGRADED_REGISTRATION"),
		LegacyFallbackChecks:      v.GetBool("LEGACY_FALLBACK_CHECKS"),
		SeedFallback:              v.GetBool("SEED_FALLBACK"),
	}

	if c.Port == "" {
		return nil, errors.New("PORT must not be empty")
	}
	if c.MongoConnectTimeout <= 0 {
		return nil, fmt.Errorf("MONGO_CONNECT_TIMEOUT must be positive, got %s", c.MongoConnectTimeout)
	}
	return c, nil
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
