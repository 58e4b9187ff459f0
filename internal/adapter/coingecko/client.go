// Package coingecko implements the market data source against the
// CoinGecko REST API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"signalwired/configs"
	"signalwired/internal/domain"
)

// DefaultAssets is the monitored crypto universe.
var DefaultAssets = []domain.Asset{
	{Symbol: "BTC/USD", CoinID: "bitcoin"},
	{Symbol: "ETH/USD", CoinID: "ethereum"},
	{Symbol: "BNB/USD", CoinID: "binancecoin"},
	{Symbol: "XRP/USD", CoinID: "ripple"},
	{Symbol: "ADA/USD", CoinID: "cardano"},
	{Symbol: "SOL/USD", CoinID: "solana"},
	{Symbol: "DOGE/USD", CoinID: "dogecoin"},
	{Symbol: "MATIC/USD", CoinID: "matic-network"},
	{Symbol: "DOT/USD", CoinID: "polkadot"},
	{Symbol: "AVAX/USD", CoinID: "avalanche-2"},
}

// defaultVolume backfills the volume series when the market chart endpoint
// is unavailable, so volume-gated strategies degrade instead of failing.
const defaultVolume = 1_000_000

// Client fetches OHLCV market snapshots from CoinGecko.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	historyDays int
	assets      []domain.Asset
	log         zerolog.Logger
}

// NewClient creates a new CoinGecko client. A nil assets slice selects
// DefaultAssets.
func NewClient(cfg configs.MarketDataConfig, assets []domain.Asset, log zerolog.Logger) *Client {
	if assets == nil {
		assets = DefaultAssets
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.FetchTimeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		historyDays: cfg.HistoryDays,
		assets:      assets,
		log:         log,
	}
}

// Assets returns the monitored asset universe.
func (c *Client) Assets() []domain.Asset {
	return c.assets
}

// FetchSnapshot fetches historical OHLC, the current price and the volume
// series for one asset and assembles a MarketSnapshot.
func (c *Client) FetchSnapshot(ctx context.Context, asset domain.Asset) (*domain.MarketSnapshot, error) {
	ohlc, err := c.fetchOHLC(ctx, asset.CoinID)
	if err != nil {
		return nil, err
	}
	if len(ohlc) == 0 {
		return nil, fmt.Errorf("no OHLC data available for %s", asset.Symbol)
	}

	currentPrice, err := c.fetchCurrentPrice(ctx, asset.CoinID)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, len(ohlc))
	highs := make([]float64, len(ohlc))
	lows := make([]float64, len(ohlc))
	for i, candle := range ohlc {
		highs[i] = candle.High
		lows[i] = candle.Low
		prices[i] = candle.Close
	}

	// Volume comes from a separate endpoint; degrade to a flat default
	// series rather than failing the whole fetch.
	volumes, err := c.fetchVolumes(ctx, asset.CoinID)
	if err != nil || len(volumes) == 0 {
		c.log.Warn().Str("asset", asset.Symbol).Err(err).Msg("volume data unavailable, using default volume")
		volumes = make([]float64, len(prices))
		for i := range volumes {
			volumes[i] = defaultVolume
		}
	}

	return &domain.MarketSnapshot{
		Asset:        asset.Symbol,
		Prices:       prices,
		Highs:        highs,
		Lows:         lows,
		Volumes:      volumes,
		CurrentPrice: currentPrice,
	}, nil
}

type ohlcCandle struct {
	High  float64
	Low   float64
	Close float64
}

// fetchOHLC fetches daily candles. CoinGecko returns rows of
// [timestamp, open, high, low, close].
func (c *Client) fetchOHLC(ctx context.Context, coinID string) ([]ohlcCandle, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/ohlc?vs_currency=usd&days=%d", c.baseURL, coinID, c.historyDays)

	var rows [][]float64
	if err := c.getJSON(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch OHLC for %s: %w", coinID, err)
	}

	candles := make([]ohlcCandle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		candles = append(candles, ohlcCandle{High: row[2], Low: row[3], Close: row[4]})
	}
	return candles, nil
}

// fetchCurrentPrice fetches the latest tick price.
func (c *Client) fetchCurrentPrice(ctx context.Context, coinID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(coinID))

	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, fmt.Errorf("failed to fetch price for %s: %w", coinID, err)
	}

	price, ok := payload[coinID]["usd"]
	if !ok || price == 0 {
		return 0, fmt.Errorf("no price available for %s", coinID)
	}
	return price, nil
}

// fetchVolumes fetches the daily volume series from the market chart
// endpoint, which returns {total_volumes: [[timestamp, volume], ...]}.
func (c *Client) fetchVolumes(ctx context.Context, coinID string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, coinID, c.historyDays)

	var payload struct {
		TotalVolumes [][]float64 `json:"total_volumes"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch volumes for %s: %w", coinID, err)
	}

	volumes := make([]float64, 0, len(payload.TotalVolumes))
	for _, row := range payload.TotalVolumes {
		if len(row) < 2 {
			continue
		}
		volumes = append(volumes, row[1])
	}
	return volumes, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("CoinGecko API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
