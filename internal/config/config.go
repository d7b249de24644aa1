package config

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

// Contacts holds the destination details shown to buyers paying through a
// manual rail, plus the chat number used to confirm those payments.
type Contacts struct {
	WhatsAppNumber string
	OMTNumber      string
	OMTName        string
	WhishID        string
	WhishPhone     string
	USDTAddress    string
	USDTNetwork    string
}

// Config is the process-wide configuration, resolved once at start-up.
type Config struct {
	AppPort           string
	APIBaseURL        string
	DatabaseDriver    string
	DatabaseDSN       string
	JWTSecret         string
	RabbitMQURL       string
	NotificationQueue string
	StripeSecretKey   string
	ResendAPIKey      string
	MailFrom          string
	SignInPath        string
	SeedCatalog       bool
	LogLevel          string
	Contacts          Contacts
}

// SetDefaults registers every recognised key with its fallback value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?cache=shared")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("NOTIFICATION_QUEUE", "order_notifications")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("MAIL_FROM", "BundlyPlus <onboarding@resend.dev>")
	v.SetDefault("SIGN_IN_PATH", "/auth/signin")
	v.SetDefault("SEED_CATALOG", false)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WHATSAPP_NUMBER", "96170123456")
	v.SetDefault("OMT_NUMBER", "03 123 456")
	v.SetDefault("OMT_NAME", "BundlyPlus LB")
	v.SetDefault("WHISH_ID", "bundlyplus")
	v.SetDefault("WHISH_PHONE", "+961 70 123 456")
	v.SetDefault("USDT_ADDRESS", "TXkYc8JNPbJ9S4aH5MtPLkDcvhJqR7nK3w")
	v.SetDefault("USDT_NETWORK", "TRC20 (TRON)")
}

// Load reads configuration from the environment and, when present, from a
// storefront.yaml file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		APIBaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		NotificationQueue: v.GetString("NOTIFICATION_QUEUE"),
		StripeSecretKey:   v.GetString("STRIPE_SECRET_KEY"),
		ResendAPIKey:      v.GetString("RESEND_API_KEY"),
		MailFrom:          v.GetString("MAIL_FROM"),
		SignInPath:        v.GetString("SIGN_IN_PATH"),
		SeedCatalog:       v.GetBool("SEED_CATALOG"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		Contacts: Contacts{
			WhatsAppNumber: v.GetString("WHATSAPP_NUMBER"),
			OMTNumber:      v.GetString("OMT_NUMBER"),
			OMTName:        v.GetString("OMT_NAME"),
			WhishID:        v.GetString("WHISH_ID"),
			WhishPhone:     v.GetString("WHISH_PHONE"),
			USDTAddress:    v.GetString("USDT_ADDRESS"),
			USDTNetwork:    v.GetString("USDT_NETWORK"),
		},
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, errors.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	return cfg, nil
}
