package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalwired/internal/domain"
)

type stubSignalRepo struct {
	signals     []*domain.Signal
	latestLimit int
	latestTier  string
	winRate     float64
	samples     int
}

func (s *stubSignalRepo) Create(ctx context.Context, sig *domain.Signal) error { return nil }
func (s *stubSignalRepo) Latest(ctx context.Context, limit int, tier string) ([]*domain.Signal, error) {
	s.latestLimit = limit
	s.latestTier = tier
	if tier == domain.TierFree && limit > 5 {
		limit = 5
	}
	if limit > len(s.signals) {
		limit = len(s.signals)
	}
	return s.signals[:limit], nil
}
func (s *stubSignalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	for _, sig := range s.signals {
		if sig.ID == id {
			return sig, nil
		}
	}
	return nil, fmt.Errorf("signal not found")
}
func (s *stubSignalRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Signal, error) {
	return s.signals, nil
}
func (s *stubSignalRepo) UpdateOutcome(ctx context.Context, id uuid.UUID, outcome string, returnPercent float64) error {
	return nil
}
func (s *stubSignalRepo) CountOpen(ctx context.Context) (int, error) { return 0, nil }
func (s *stubSignalRepo) OpenAssets(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubSignalRepo) PlatformWinRate(ctx context.Context, days int) (float64, int, error) {
	return s.winRate, s.samples, nil
}

type stubPerformanceRepo struct{}

func (s *stubPerformanceRepo) Get(ctx context.Context, strategy string) (*domain.StrategyPerformance, error) {
	return nil, nil
}
func (s *stubPerformanceRepo) GetAll(ctx context.Context) ([]*domain.StrategyPerformance, error) {
	return []*domain.StrategyPerformance{
		{Strategy: domain.StrategyRsiBET, WinRate30d: 62, Status: domain.StrategyActive},
	}, nil
}
func (s *stubPerformanceRepo) Upsert(ctx context.Context, r *domain.StrategyPerformance) error {
	return nil
}
func (s *stubPerformanceRepo) SetStatus(ctx context.Context, strategy, status string) error {
	return nil
}

func makeSignals(n int) []*domain.Signal {
	signals := make([]*domain.Signal, n)
	for i := range signals {
		signals[i] = domain.NewSignal(&domain.CandidateSignal{
			Asset:    "BTC/USD",
			Action:   domain.ActionBuy,
			Strategy: domain.StrategyRsiBET,
		})
	}
	return signals
}

func performRequest(handler echo.HandlerFunc, target string, pathParam ...string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(pathParam) == 2 {
		c.SetParamNames(pathParam[0])
		c.SetParamValues(pathParam[1])
	}
	return rec, handler(c)
}

func TestGetLatest_FreeTierCap(t *testing.T) {
	repo := &stubSignalRepo{signals: makeSignals(10)}
	h := NewSignalHandler(repo, &stubPerformanceRepo{})

	rec, err := performRequest(h.GetLatest, "/api/signals/latest?limit=10&tier=free")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TierFree, repo.latestTier)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(5), data["count"], "free tier is capped at 5")
}

func TestGetLatest_ProTierUncapped(t *testing.T) {
	repo := &stubSignalRepo{signals: makeSignals(10)}
	h := NewSignalHandler(repo, &stubPerformanceRepo{})

	rec, err := performRequest(h.GetLatest, "/api/signals/latest?limit=10&tier=pro")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(10), data["count"])
}

func TestGetLatest_Validation(t *testing.T) {
	h := NewSignalHandler(&stubSignalRepo{}, &stubPerformanceRepo{})

	rec, err := performRequest(h.GetLatest, "/api/signals/latest?limit=zero")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = performRequest(h.GetLatest, "/api/signals/latest?tier=platinum")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByID(t *testing.T) {
	signals := makeSignals(1)
	h := NewSignalHandler(&stubSignalRepo{signals: signals}, &stubPerformanceRepo{})

	rec, err := performRequest(h.GetByID, "/api/signals/"+signals[0].ID.String(), "id", signals[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = performRequest(h.GetByID, "/api/signals/"+uuid.NewString(), "id", uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, err = performRequest(h.GetByID, "/api/signals/not-a-uuid", "id", "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPerformance(t *testing.T) {
	repo := &stubSignalRepo{winRate: 0.58, samples: 24}
	h := NewSignalHandler(repo, &stubPerformanceRepo{})

	rec, err := performRequest(h.GetPerformance, "/api/signals/performance?days=14")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(14), data["window_days"])
	assert.InDelta(t, 58.0, data["platform_win_rate"].(float64), 1e-9)
	assert.Equal(t, float64(24), data["settled_signals"])

	rec, err = performRequest(h.GetPerformance, "/api/signals/performance?days=400")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
