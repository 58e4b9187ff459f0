package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalwired/internal/domain"
)

func TestSendSignal(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	signal := domain.NewSignal(&domain.CandidateSignal{
		Asset:      "BTC/USD",
		Action:     domain.ActionBuy,
		Strategy:   domain.StrategyRsiBET,
		EntryPrice: 50000,
		StopLoss:   48500,
		TakeProfit: 53000,
		Confidence: 70,
		Rationale:  "oversold bounce",
	})

	require.NoError(t, n.SendSignal(context.Background(), signal))

	require.Len(t, received.Embeds, 1)
	e := received.Embeds[0]
	assert.Contains(t, e.Title, "BUY Signal: BTC/USD")
	assert.Equal(t, colorBuy, e.Color)
	assert.Len(t, e.Fields, 6)
	assert.Equal(t, "oversold bounce", e.Description)
}

func TestSendSignal_SellUsesSellColor(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	signal := domain.NewSignal(&domain.CandidateSignal{
		Asset:      "ETH/USD",
		Action:     domain.ActionSell,
		Strategy:   domain.StrategyMACDCrossover,
		EntryPrice: 3000,
		StopLoss:   3090,
		TakeProfit: 2820,
	})

	require.NoError(t, n.SendSignal(context.Background(), signal))
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, colorSell, received.Embeds[0].Color)
}

func TestSendSignalBatch(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	signals := []*domain.Signal{
		domain.NewSignal(&domain.CandidateSignal{
			Asset: "BTC/USD", Action: domain.ActionBuy, Strategy: domain.StrategyRsiBET,
			EntryPrice: 50000, StopLoss: 48500, TakeProfit: 53000, Confidence: 70,
		}),
		domain.NewSignal(&domain.CandidateSignal{
			Asset: "ETH/USD", Action: domain.ActionSell, Strategy: domain.StrategyMACDCrossover,
			EntryPrice: 3000, StopLoss: 3090, TakeProfit: 2820, Confidence: 65,
		}),
	}

	require.NoError(t, n.SendSignalBatch(context.Background(), signals))

	assert.Equal(t, "📊 **2 New Trading Signals**", received.Content)
	require.Len(t, received.Embeds, 2)
	assert.Equal(t, "BUY BTC/USD", received.Embeds[0].Title)
	assert.Equal(t, colorBuy, received.Embeds[0].Color)
	assert.Equal(t, "SELL ETH/USD", received.Embeds[1].Title)
	assert.Equal(t, colorSell, received.Embeds[1].Color)
	assert.Len(t, received.Embeds[0].Fields, 6)
}

func TestSendSignalBatch_CapsAtTenEmbeds(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	signals := make([]*domain.Signal, 12)
	for i := range signals {
		signals[i] = domain.NewSignal(&domain.CandidateSignal{
			Asset: "BTC/USD", Action: domain.ActionBuy, Strategy: domain.StrategyRsiBET,
			EntryPrice: 50000, StopLoss: 48500, TakeProfit: 53000,
		})
	}

	require.NoError(t, n.SendSignalBatch(context.Background(), signals))

	assert.Len(t, received.Embeds, 10, "Discord allows at most 10 embeds per message")
	assert.Equal(t, "📊 **12 New Trading Signals**", received.Content)
}

func TestSendSignalBatch_EmptyIsNoOp(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	require.NoError(t, n.SendSignalBatch(context.Background(), nil))
	assert.Equal(t, 0, calls)
}

func TestSendAlert(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())

	require.NoError(t, n.SendAlert(context.Background(), "Circuit Breaker", "win rate collapsed", domain.SeverityError))

	require.Len(t, received.Embeds, 1)
	e := received.Embeds[0]
	assert.Contains(t, e.Title, "Circuit Breaker")
	assert.Equal(t, colorError, e.Color)
	assert.Equal(t, "win rate collapsed", e.Description)
}

func TestDisabledWhenURLEmpty(t *testing.T) {
	n := NewNotifier("", zerolog.Nop())

	assert.NoError(t, n.SendSignal(context.Background(), &domain.Signal{}))
	assert.NoError(t, n.SendSignalBatch(context.Background(), []*domain.Signal{{}}))
	assert.NoError(t, n.SendAlert(context.Background(), "t", "m", domain.SeverityInfo))
}

func TestSendReportsWebhookErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, zerolog.Nop())
	err := n.SendAlert(context.Background(), "t", "m", domain.SeverityInfo)
	assert.ErrorContains(t, err, "status 400")
}

func TestRiskReward(t *testing.T) {
	long := &domain.Signal{EntryPrice: 100, StopLoss: 95, TakeProfit: 110}
	assert.InDelta(t, 2.0, riskReward(long), 1e-9)

	flat := &domain.Signal{EntryPrice: 100, StopLoss: 100, TakeProfit: 110}
	assert.Equal(t, 0.0, riskReward(flat))
}
