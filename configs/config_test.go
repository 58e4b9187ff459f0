package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.MarketData.BaseURL)
	assert.Equal(t, 30, cfg.MarketData.HistoryDays)
	assert.Equal(t, time.Second, cfg.MarketData.RequestDelay)

	assert.Equal(t, 2.0, cfg.Risk.MaxPositionSizePercent)
	assert.Equal(t, 5, cfg.Risk.MaxConcurrentTrades)
	assert.Equal(t, 0.80, cfg.Risk.MaxCorrelation)
	assert.Equal(t, 1.5, cfg.Risk.MinRiskReward)
	assert.Equal(t, 0.60, cfg.Risk.StrategyPauseThreshold)
	assert.Equal(t, 0.55, cfg.Risk.PlatformPauseThreshold)

	assert.Equal(t, "*/15 * * * *", cfg.Scheduler.CronSpec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RISK_MAX_CONCURRENT_TRADES", "3")
	t.Setenv("RISK_MIN_RISK_REWARD", "2.0")
	t.Setenv("MARKET_REQUEST_DELAY", "250ms")
	t.Setenv("GENERATION_CRON", "*/5 * * * *")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Risk.MaxConcurrentTrades)
	assert.Equal(t, 2.0, cfg.Risk.MinRiskReward)
	assert.Equal(t, 250*time.Millisecond, cfg.MarketData.RequestDelay)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.CronSpec)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RISK_MAX_CONCURRENT_TRADES", "not-a-number")
	t.Setenv("MARKET_REQUEST_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 5, cfg.Risk.MaxConcurrentTrades)
	assert.Equal(t, time.Second, cfg.MarketData.RequestDelay)
}
