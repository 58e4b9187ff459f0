package domain

import "context"

// Alert severity constants
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notifier delivers accepted signals and operator alerts to an external
// channel. Delivery is fire-and-forget: failures are logged by callers and
// never affect a cycle's outcome.
type Notifier interface {
	SendSignal(ctx context.Context, signal *Signal) error
	SendSignalBatch(ctx context.Context, signals []*Signal) error
	SendAlert(ctx context.Context, title, message, severity string) error
}
