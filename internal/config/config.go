package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL      MySQLConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Platform   PlatformConfig
	DNS        DNSConfig
	Revalidate RevalidateConfig
	Notify     NotifyConfig
	ACME       ACMEConfig
	Migrate    bool
	HTTPAddr   string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// PlatformConfig describes how the platform itself is reached.
// BaseDomain is the routing root for path and subdomain modes,
// ServerIP is the A-record value custom domains must point at.
type PlatformConfig struct {
	BaseDomain string
	Protocol   string
	ServerIP   string
	LandingURL string
}

// DNSConfig holds DNS verification configuration.
// SkipVerification short-circuits custom-domain checks to "verified";
// it exists for test/dev environments and must never be set in production.
type DNSConfig struct {
	ResolverAddr     string
	TimeoutMs        int
	SkipVerification bool
}

// RevalidateConfig holds the domain revalidation worker configuration
type RevalidateConfig struct {
	Enabled     bool
	IntervalSec int
	BatchSize   int
}

// NotifyConfig holds notification fan-out configuration
type NotifyConfig struct {
	SendGridKey string
	FromEmail   string
	WebhookURL  string
	TimeoutSec  int
}

// ACMEConfig holds TLS certificate issuance configuration
type ACMEConfig struct {
	Enabled      bool
	DirectoryURL string
	Email        string
	IntervalSec  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "go_sitebuilder"),
		},
		Platform: PlatformConfig{
			BaseDomain: getEnv("BASE_DOMAIN", "begrat.com"),
			Protocol:   getEnv("BASE_PROTOCOL", "https"),
			ServerIP:   getEnv("SERVER_IP", ""),
			LandingURL: getEnv("LANDING_URL", "https://begrat.com"),
		},
		DNS: DNSConfig{
			ResolverAddr:     getEnv("DNS_RESOLVER_ADDR", "8.8.8.8:53"),
			TimeoutMs:        getEnvInt("DNS_TIMEOUT_MS", 5000),
			SkipVerification: getEnv("DNS_SKIP_VERIFICATION", "0") == "1",
		},
		Revalidate: RevalidateConfig{
			Enabled:     getEnv("REVALIDATE_ENABLED", "1") == "1",
			IntervalSec: getEnvInt("REVALIDATE_INTERVAL_SEC", 21600),
			BatchSize:   getEnvInt("REVALIDATE_BATCH_SIZE", 100),
		},
		Notify: NotifyConfig{
			SendGridKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:   getEnv("NOTIFY_FROM_EMAIL", "hello@begrat.com"),
			WebhookURL:  getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSec:  getEnvInt("NOTIFY_TIMEOUT_SEC", 10),
		},
		ACME: ACMEConfig{
			Enabled:      getEnv("ACME_ENABLED", "0") == "1",
			DirectoryURL: getEnv("ACME_DIRECTORY_URL", "https://acme-v02.api.letsencrypt.org/directory"),
			Email:        getEnv("ACME_EMAIL", ""),
			IntervalSec:  getEnvInt("ACME_INTERVAL_SEC", 60),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Platform.ServerIP == "" && !cfg.DNS.SkipVerification {
		return nil, fmt.Errorf("SERVER_IP is required unless DNS_SKIP_VERIFICATION=1")
	}

	return cfg, nil
}

// LoadFromINI loads configuration from an INI file with environment
// variable override. Priority: ENV > INI > default.
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	setIfEmpty := func(envKey, iniSection, iniKey string) {
		if os.Getenv(envKey) != "" {
			return
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			os.Setenv(envKey, value)
		}
	}

	setIfEmpty("MYSQL_DSN", "mysql", "dsn")
	setIfEmpty("REDIS_ADDR", "redis", "addr")
	setIfEmpty("REDIS_PASS", "redis", "password")
	setIfEmpty("JWT_SECRET", "jwt", "secret")
	setIfEmpty("JWT_ISSUER", "jwt", "issuer")
	setIfEmpty("BASE_DOMAIN", "platform", "base_domain")
	setIfEmpty("BASE_PROTOCOL", "platform", "protocol")
	setIfEmpty("SERVER_IP", "platform", "server_ip")
	setIfEmpty("LANDING_URL", "platform", "landing_url")
	setIfEmpty("DNS_RESOLVER_ADDR", "dns", "resolver_addr")
	setIfEmpty("DNS_TIMEOUT_MS", "dns", "timeout_ms")
	setIfEmpty("REVALIDATE_INTERVAL_SEC", "revalidate", "interval_sec")
	setIfEmpty("SENDGRID_API_KEY", "notify", "sendgrid_api_key")
	setIfEmpty("NOTIFY_WEBHOOK_URL", "notify", "webhook_url")
	setIfEmpty("HTTP_ADDR", "http", "addr")

	return Load()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
