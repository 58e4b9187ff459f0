package configs

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	MarketData MarketDataConfig
	Risk       RiskConfig
	Discord    DiscordConfig
	Scheduler  SchedulerConfig
	Log        LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// MarketDataConfig holds CoinGecko market data configuration
type MarketDataConfig struct {
	BaseURL      string
	APIKey       string
	HistoryDays  int
	RequestDelay time.Duration
	FetchTimeout time.Duration
}

// RiskConfig holds the risk management gate thresholds
type RiskConfig struct {
	MaxPositionSizePercent float64
	MaxConcurrentTrades    int
	MaxCorrelation         float64
	MinRiskReward          float64
	StrategyPauseThreshold float64
	PlatformPauseThreshold float64
}

// DiscordConfig holds Discord webhook configuration
type DiscordConfig struct {
	WebhookURL string
}

// SchedulerConfig holds the signal generation schedule
type SchedulerConfig struct {
	CronSpec string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		MarketData: MarketDataConfig{
			BaseURL:      getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:       getEnv("COINGECKO_API_KEY", ""),
			HistoryDays:  getEnvInt("MARKET_HISTORY_DAYS", 30),
			RequestDelay: getEnvDuration("MARKET_REQUEST_DELAY", time.Second),
			FetchTimeout: getEnvDuration("MARKET_FETCH_TIMEOUT", 10*time.Second),
		},
		Risk: RiskConfig{
			MaxPositionSizePercent: getEnvFloat("RISK_MAX_POSITION_SIZE", 2.0),
			MaxConcurrentTrades:    getEnvInt("RISK_MAX_CONCURRENT_TRADES", 5),
			MaxCorrelation:         getEnvFloat("RISK_MAX_CORRELATION", 0.80),
			MinRiskReward:          getEnvFloat("RISK_MIN_RISK_REWARD", 1.5),
			StrategyPauseThreshold: getEnvFloat("RISK_STRATEGY_PAUSE_THRESHOLD", 0.60),
			PlatformPauseThreshold: getEnvFloat("RISK_PLATFORM_PAUSE_THRESHOLD", 0.55),
		},
		Discord: DiscordConfig{
			WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		},
		Scheduler: SchedulerConfig{
			CronSpec: getEnv("GENERATION_CRON", "*/15 * * * *"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
