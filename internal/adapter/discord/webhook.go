// Package discord delivers signal notifications and system alerts to a
// Discord channel via webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"signalwired/internal/domain"
)

const (
	colorBuy     = 0x3de8b5
	colorSell    = 0xff6767
	colorInfo    = 0x61ffca
	colorWarning = 0xffca85
	colorError   = 0xff6767
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Footer      *embedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

// Notifier sends signal and alert embeds to a Discord webhook. An empty
// webhook URL disables delivery silently.
type Notifier struct {
	webhookURL string
	enabled    bool
	httpClient *http.Client
	log        zerolog.Logger
}

// NewNotifier creates a new Discord webhook notifier.
func NewNotifier(webhookURL string, log zerolog.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// SendSignal sends a color-coded trading signal embed.
func (n *Notifier) SendSignal(ctx context.Context, signal *domain.Signal) error {
	if !n.enabled {
		return nil
	}

	color := colorBuy
	if signal.Action == domain.ActionSell {
		color = colorSell
	}

	e := embed{
		Title:       fmt.Sprintf("🎯 %s Signal: %s", signal.Action, signal.Asset),
		Description: signal.Rationale,
		Color:       color,
		Fields: []embedField{
			{Name: "📊 Entry Price", Value: fmt.Sprintf("$%.2f", signal.EntryPrice), Inline: true},
			{Name: "🛑 Stop Loss", Value: fmt.Sprintf("$%.2f", signal.StopLoss), Inline: true},
			{Name: "🎯 Take Profit", Value: fmt.Sprintf("$%.2f", signal.TakeProfit), Inline: true},
			{Name: "📈 Confidence", Value: fmt.Sprintf("%d%%", signal.Confidence), Inline: true},
			{Name: "⚖️ Risk:Reward", Value: fmt.Sprintf("1:%.2f", riskReward(signal)), Inline: true},
			{Name: "🤖 Strategy", Value: signal.Strategy, Inline: true},
		},
		Footer:    &embedFooter{Text: "Signalwired • Trade responsibly"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return n.send(ctx, webhookPayload{Username: "Signalwired", Embeds: []embed{e}})
}

// maxBatchEmbeds is Discord's per-message embed limit.
const maxBatchEmbeds = 10

// SendSignalBatch sends a cycle digest as one message with a compact embed
// per signal. Signals beyond Discord's embed limit are dropped from the
// digest; each was already announced individually.
func (n *Notifier) SendSignalBatch(ctx context.Context, signals []*domain.Signal) error {
	if !n.enabled || len(signals) == 0 {
		return nil
	}

	batch := signals
	if len(batch) > maxBatchEmbeds {
		batch = batch[:maxBatchEmbeds]
	}

	embeds := make([]embed, 0, len(batch))
	for _, signal := range batch {
		color := colorBuy
		if signal.Action == domain.ActionSell {
			color = colorSell
		}
		embeds = append(embeds, embed{
			Title: fmt.Sprintf("%s %s", signal.Action, signal.Asset),
			Color: color,
			Fields: []embedField{
				{Name: "Entry", Value: fmt.Sprintf("$%.2f", signal.EntryPrice), Inline: true},
				{Name: "Stop", Value: fmt.Sprintf("$%.2f", signal.StopLoss), Inline: true},
				{Name: "Target", Value: fmt.Sprintf("$%.2f", signal.TakeProfit), Inline: true},
				{Name: "Confidence", Value: fmt.Sprintf("%d%%", signal.Confidence), Inline: true},
				{Name: "R:R", Value: fmt.Sprintf("1:%.2f", riskReward(signal)), Inline: true},
				{Name: "Strategy", Value: signal.Strategy, Inline: true},
			},
			Footer:    &embedFooter{Text: "Signalwired"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	plural := ""
	if len(signals) > 1 {
		plural = "s"
	}
	payload := webhookPayload{
		Username: "Signalwired",
		Content:  fmt.Sprintf("📊 **%d New Trading Signal%s**", len(signals), plural),
		Embeds:   embeds,
	}

	return n.send(ctx, payload)
}

// SendAlert sends a severity-colored system alert (circuit breakers,
// operational faults).
func (n *Notifier) SendAlert(ctx context.Context, title, message, severity string) error {
	if !n.enabled {
		return nil
	}

	color := colorInfo
	icon := "ℹ️"
	switch severity {
	case domain.SeverityWarning:
		color = colorWarning
		icon = "⚠️"
	case domain.SeverityError:
		color = colorError
		icon = "🚨"
	}

	e := embed{
		Title:       fmt.Sprintf("%s %s", icon, title),
		Description: message,
		Color:       color,
		Fields:      []embedField{},
		Footer:      &embedFooter{Text: "Signalwired System Alert"},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	return n.send(ctx, webhookPayload{Username: "Signalwired", Embeds: []embed{e}})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord webhook error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func riskReward(signal *domain.Signal) float64 {
	risk := signal.EntryPrice - signal.StopLoss
	if risk < 0 {
		risk = -risk
	}
	reward := signal.TakeProfit - signal.EntryPrice
	if reward < 0 {
		reward = -reward
	}
	if risk == 0 {
		return 0
	}
	return reward / risk
}
