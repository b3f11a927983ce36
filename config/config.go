package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	WebDir            string `mapstructure:"WEB_DIR"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"` // CIDRs or IPs whose X-Forwarded-For is honoured

	// Wellness REST API.
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`

	// Browser sessions and token store.
	SessionStore        string `mapstructure:"SESSION_STORE"` // "memory" or "redis"
	SessionTTLMinutes   int    `mapstructure:"SESSION_TTL_MINUTES"`
	SessionSecret       string `mapstructure:"SESSION_SECRET"`
	CookieSecure        bool   `mapstructure:"COOKIE_SECURE"`
	CalendarIdleMinutes int    `mapstructure:"CALENDAR_IDLE_MINUTES"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisNoticeDB  int    `mapstructure:"REDIS_NOTICE_DB"`

	// MongoDB booking journal. Empty URL keeps the journal in memory.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("WEB_DIR", "web")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("API_BASE_URL", "http://localhost:8081")
	viper.SetDefault("API_TIMEOUT_SECONDS", 20)
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_TTL_MINUTES", 7*24*60)
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("CALENDAR_IDLE_MINUTES", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_NOTICE_DB", 2)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "wellportal")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if IsProduction() && AppConfig.SessionStore == "redis" && AppConfig.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required for the redis session store in production")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// APITimeout is the fixed per-request timeout for the wellness API.
func (c Config) APITimeout() time.Duration {
	if c.APITimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) CalendarIdle() time.Duration {
	return time.Duration(c.CalendarIdleMinutes) * time.Minute
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. Empty means the remote
// address is always the client.
func (c Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
