package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/avelex/tradehook/internal/domain"
	"github.com/avelex/tradehook/internal/notify"
	"github.com/avelex/tradehook/internal/signal"
)

// maxBodyBytes bounds the webhook body we are willing to read.
const maxBodyBytes = 64 << 10

// Executor runs the order sub-pipeline for a parsed signal.
type Executor interface {
	Execute(ctx context.Context, sig domain.TradingSignal) (domain.ExecutionOutcome, error)
}

// Notifier delivers the per-invocation summary to the operator channel.
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// WebhookHandler receives trading signals and drives one invocation of the
// pipeline: parse, execute, notify, respond.
type WebhookHandler struct {
	exec     Executor
	notifier Notifier
	logger   *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(exec Executor, notifier Notifier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		exec:     exec,
		notifier: notifier,
		logger:   logger.With(slog.String("handler", "webhook")),
	}
}

// signalResponse is the caller-facing echo of the processed signal.
type signalResponse struct {
	OrderStrategy string `json:"order_strategy"`
	SignalTime    string `json:"signal_time"`
	SignalPrice   string `json:"signal_price"`
	MarketPair    string `json:"market_pair"`
	OrderSide     string `json:"order_side"`
	OrderSize     string `json:"order_size"`
}

// HandleSignal processes one webhook delivery. Parse faults and skipped
// executions still answer 200 with the fields that were populated; only an
// exchange failure surfaces as a non-200 outcome, and in that case no
// notification is sent.
func (h *WebhookHandler) HandleSignal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "body read failed", slog.String("error", err.Error()))
		body = nil
	}

	sig := signal.Parse(r.URL.Query(), body)

	outcome, err := h.exec.Execute(ctx, sig)
	if err != nil {
		h.logger.ErrorContext(ctx, "order pipeline failed",
			slog.String("market_pair", sig.MarketPair),
			slog.String("side", string(sig.Side)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "exchange unavailable")
		return
	}

	h.logger.InfoContext(ctx, "signal processed",
		slog.String("market_pair", sig.MarketPair),
		slog.String("side", string(sig.Side)),
		slog.String("state", string(outcome.State)),
		slog.String("reason", outcome.Reason),
		slog.String("tx_hash", outcome.TxHash),
	)

	// Best-effort: a delivery failure is logged inside the notifier and
	// never alters the response.
	_ = h.notifier.Notify(ctx, notify.FromSignal(sig))

	writeJSON(w, http.StatusOK, signalResponse{
		OrderStrategy: sig.Strategy,
		SignalTime:    sig.SignalTime,
		SignalPrice:   sig.SignalPrice,
		MarketPair:    sig.MarketPair,
		OrderSide:     string(sig.Side),
		OrderSize:     sig.SizeRaw,
	})
}
