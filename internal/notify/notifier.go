// Package notify posts a per-invocation signal summary to the operator
// channel. Delivery is best-effort and fire-and-forget: the outcome never
// affects the HTTP response being constructed.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avelex/tradehook/internal/domain"
)

// Message is the structured summary emitted once per invocation, independent
// of whether an order was placed.
type Message struct {
	Strategy    string
	SignalTime  string
	SignalPrice string
	MarketPair  string
	Side        string
	Size        string
}

// FromSignal builds the notification summary for a parsed signal.
func FromSignal(sig domain.TradingSignal) Message {
	return Message{
		Strategy:    sig.Strategy,
		SignalTime:  sig.SignalTime,
		SignalPrice: sig.SignalPrice,
		MarketPair:  sig.MarketPair,
		Side:        strings.ToUpper(string(sig.Side)),
		Size:        sig.SizeRaw,
	}
}

// Sender is the interface each notification channel implements.
type Sender interface {
	// Send delivers the summary to the channel.
	Send(ctx context.Context, msg Message) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// Notifier dispatches the summary to all registered senders. A sender failure
// is logged and does not prevent delivery to the remaining senders.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders.
func NewNotifier(senders []Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify sends the summary to every sender. The combined error is returned
// for logging only; callers must not fail the invocation on it.
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, msg); err != nil {
			n.logger.ErrorContext(ctx, "notification delivery failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("market", msg.MarketPair),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
