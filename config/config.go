package config

import (
	"amiasbakery_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without touching the singleton.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "AmiasBakery_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			SiteURL:        getEnvAsString("SITE_URL", "http://localhost:3000"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 30*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 600),
		},
		Database: &structs.DatabaseConfig{
			Host:             getEnvAsString("DB_HOST", "localhost"),
			Port:             getEnvAsInt("DB_PORT", 5432),
			Name:             getEnvAsString("DB_NAME", "amias_bakery"),
			User:             getEnvAsString("DB_USER", "postgres"),
			Password:         getEnvAsString("DB_PASSWORD", "password"),
			ReadOnlyUser:     getEnvAsString("DB_READONLY_USER", "bakery_reader"),
			ReadOnlyPassword: getEnvAsString("DB_READONLY_PASSWORD", "password"),
			SSLMode:          getEnvAsString("DB_SSLMODE", "disable"),
			AutoMigrate:      getEnvAsBool("DB_AUTO_MIGRATE", true),
			MaxConns:         getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:      getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:      getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:      getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:     getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDR", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			MenuTTL:         getEnvAsTimeDuration("CACHE_MENU_TTL", 5*time.Minute),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralLimit:   getEnvAsInt("RATE_LIMIT_GENERAL", 120),
			GeneralWindow:  getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			CheckoutLimit:  getEnvAsInt("RATE_LIMIT_CHECKOUT", 10),
			CheckoutWindow: getEnvAsTimeDuration("RATE_LIMIT_CHECKOUT_WINDOW", time.Minute),
			AdminLimit:     getEnvAsInt("RATE_LIMIT_ADMIN", 60),
			AdminWindow:    getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
		},
		Square: &structs.SquareConfig{
			AccessToken: getEnvAsString("SQUARE_ACCESS_TOKEN", ""),
			LocationID:  getEnvAsString("SQUARE_LOCATION_ID", ""),
			Environment: getEnvAsString("SQUARE_ENV", "sandbox"),
			APIVersion:  getEnvAsString("SQUARE_VERSION", "2026-01-22"),
			Currency:    getEnvAsString("SQUARE_CURRENCY", "USD"),
			HTTPTimeout: getEnvAsTimeDuration("SQUARE_HTTP_TIMEOUT", 15*time.Second),
			APIBase:     getEnvAsString("SQUARE_API_BASE_URL", ""),
		},
		Webhook: &structs.WebhookConfig{
			SignatureKey:    getEnvAsString("SQUARE_WEBHOOK_SIGNATURE_KEY", ""),
			NotificationURL: getEnvAsString("SQUARE_WEBHOOK_NOTIFICATION_URL", ""),
		},
		Email: &structs.EmailConfig{
			ApiKey:   getEnvAsString("RESEND_API_KEY", ""),
			From:     getEnvAsString("EMAIL_FROM", "Amias Bakery <orders@orders.amiasbakery.com>"),
			OrdersTo: getEnvAsString("ORDERS_TO_EMAIL", "amiasbakery@gmail.com"),
		},
		Sweep: &structs.SweepConfig{
			Enabled:    getEnvAsBool("SWEEP_ENABLED", true),
			Interval:   getEnvAsTimeDuration("SWEEP_INTERVAL", 5*time.Minute),
			PendingTTL: getEnvAsTimeDuration("SWEEP_PENDING_TTL", 2*time.Hour),
		},
		Events: &structs.EventsConfig{
			Brokers: getEnvAsSlice("KAFKA_BROKERS", nil),
			Topic:   getEnvAsString("KAFKA_ORDER_TOPIC", "bakery.orders"),
		},
		Auth: &structs.AuthConfig{
			AdminTokenSecret: getEnvAsString("AUTH_ADMIN_TOKEN_SECRET", "default_admin_secret"),
		},
	}
}

func GetLogLevel() string {
	return LogLevelFor(GetConfig())
}

// LogLevelFor is info in production and debug everywhere else.
func LogLevelFor(cfg *structs.Config) string {
	if cfg.Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
