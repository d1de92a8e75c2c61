package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Event publishing; empty AMQPURL disables the producer.
	AMQPURL string

	// Overview snapshot cache; empty RedisURL disables caching.
	RedisURL         string
	OverviewCacheTTL time.Duration

	// Payout approval engine
	PayoutMaxRetries int

	// Overview aggregation knobs
	RecentTransferLimit int
	NetFlowWindow       time.Duration

	// Rate limiting, in ulule/limiter formatted notation (e.g. "100-M")
	RateLimit string

	// Settlement provider endpoint; empty means the in-process stub.
	SettlementProviderURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "treasury-backend")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("OVERVIEW_CACHE_TTL", "30s")
	viper.SetDefault("PAYOUT_MAX_RETRIES", 3)
	viper.SetDefault("RECENT_TRANSFER_LIMIT", 10)
	viper.SetDefault("NET_FLOW_WINDOW", "720h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("SETTLEMENT_PROVIDER_URL", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Payout events will not be published.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")

	cacheTTLStr := viper.GetString("OVERVIEW_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 30 * time.Second
		log.Printf("Warning: Invalid value for OVERVIEW_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
	}
	cfg.OverviewCacheTTL = cacheTTL

	cfg.PayoutMaxRetries = viper.GetInt("PAYOUT_MAX_RETRIES")
	if cfg.PayoutMaxRetries < 0 {
		log.Printf("Warning: PAYOUT_MAX_RETRIES is negative (%d). Defaulting to 3.\n", cfg.PayoutMaxRetries)
		cfg.PayoutMaxRetries = 3
	}

	cfg.RecentTransferLimit = viper.GetInt("RECENT_TRANSFER_LIMIT")
	if cfg.RecentTransferLimit <= 0 {
		cfg.RecentTransferLimit = 10
	}

	netFlowWindowStr := viper.GetString("NET_FLOW_WINDOW")
	netFlowWindow, err := time.ParseDuration(netFlowWindowStr)
	if err != nil {
		netFlowWindow = 30 * 24 * time.Hour
		log.Printf("Warning: Invalid value for NET_FLOW_WINDOW ('%s'). Defaulting to %s.\n", netFlowWindowStr, netFlowWindow.String())
	}
	cfg.NetFlowWindow = netFlowWindow

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.SettlementProviderURL = viper.GetString("SETTLEMENT_PROVIDER_URL")

	return cfg, nil
}
