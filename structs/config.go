package structs

import (
	"strings"
	"time"
)

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Square    *SquareConfig
	Webhook   *WebhookConfig
	Email     *EmailConfig
	Sweep     *SweepConfig
	Events    *EventsConfig
	Auth      *AuthConfig
}

type ServerConfig struct {
	AppName        string        // AmiasBakery
	Environment    string        // development, production
	Port           string        // :8082
	SiteURL        string        // public storefront origin, used when a request carries no Origin
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64         // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DatabaseConfig carries two credential sets for the same database: the
// privileged role writes orders and slots, the read-only role serves the catalog.
type DatabaseConfig struct {
	Host             string
	Port             int
	Name             string
	User             string
	Password         string
	ReadOnlyUser     string
	ReadOnlyPassword string
	SSLMode          string
	AutoMigrate      bool
	MaxConns         int
	MinConns         int
	MaxLifetime      time.Duration
	MaxIdleTime      time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	MenuTTL         time.Duration
}

type RateLimitConfig struct {
	Enabled        bool
	GeneralLimit   int
	GeneralWindow  time.Duration
	CheckoutLimit  int
	CheckoutWindow time.Duration
	AdminLimit     int
	AdminWindow    time.Duration
}

type SquareConfig struct {
	AccessToken string
	LocationID  string
	Environment string // sandbox, production
	APIVersion  string
	Currency    string
	HTTPTimeout time.Duration
	APIBase     string // overrides the environment host when set
}

// BaseURL returns the Square Connect host for the configured environment.
func (s *SquareConfig) BaseURL() string {
	if s.APIBase != "" {
		return strings.TrimRight(s.APIBase, "/")
	}
	if s.Environment == "production" {
		return "https://connect.squareup.com"
	}
	return "https://connect.squareupsandbox.com"
}

type WebhookConfig struct {
	SignatureKey    string
	NotificationURL string
}

type EmailConfig struct {
	ApiKey   string
	From     string
	OrdersTo string
}

type SweepConfig struct {
	Enabled    bool
	Interval   time.Duration
	PendingTTL time.Duration
}

type EventsConfig struct {
	Brokers []string
	Topic   string
}

type AuthConfig struct {
	AdminTokenSecret string
}
