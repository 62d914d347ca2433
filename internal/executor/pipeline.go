// Package executor runs the order sub-pipeline for one parsed signal:
// collateral guard, order construction, and transaction submission. Skipping
// the sub-pipeline (invalid side, duplicate delivery, insufficient
// collateral) is a normal outcome; only exchange connectivity failures are
// errors.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelex/tradehook/internal/domain"
	"github.com/avelex/tradehook/internal/dydx"
)

// AccountReader supplies the collateral snapshot for the trading subaccount.
type AccountReader interface {
	Subaccount(ctx context.Context, address string, number int) (domain.AccountState, error)
}

// MarketReader supplies per-market quantization constraints.
type MarketReader interface {
	PerpetualMarket(ctx context.Context, ticker string) (dydx.Market, error)
}

// HeightReader supplies the latest committed chain height.
type HeightReader interface {
	LatestBlockHeight(ctx context.Context) (uint32, error)
}

// OrderSubmitter signs and broadcasts a constructed order.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, subaccount int, order domain.OrderDescriptor) (domain.OrderResult, error)
}

// Config carries the execution thresholds and bounds.
type Config struct {
	Address           string
	Subaccount        int
	FreeCollateralMin float64
	PriceFloor        float64
	PriceCeiling      float64
	GoodTilBlocks     uint32
}

// Pipeline is the signal-to-order execution pipeline.
type Pipeline struct {
	cfg       Config
	accounts  AccountReader
	markets   MarketReader
	chain     HeightReader
	submitter OrderSubmitter
	ids       IDGenerator
	dedup     *Dedup
	logger    *slog.Logger
}

// New creates a Pipeline. dedup may be nil to disable duplicate suppression.
func New(
	cfg Config,
	accounts AccountReader,
	markets MarketReader,
	chain HeightReader,
	submitter OrderSubmitter,
	ids IDGenerator,
	dedup *Dedup,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		accounts:  accounts,
		markets:   markets,
		chain:     chain,
		submitter: submitter,
		ids:       ids,
		dedup:     dedup,
		logger:    logger.With(slog.String("component", "executor")),
	}
}

// Execute runs the order sub-pipeline for one signal. A nil error with a
// skipped outcome means the invocation still completes successfully; a
// non-nil error means an exchange call failed and the invocation must fail.
func (p *Pipeline) Execute(ctx context.Context, sig domain.TradingSignal) (domain.ExecutionOutcome, error) {
	if !sig.Side.Valid() {
		return skip("order side is not a trade direction"), nil
	}

	if p.dedup != nil && p.dedup.IsDuplicate(fingerprint(sig)) {
		p.logger.InfoContext(ctx, "duplicate signal suppressed",
			slog.String("market_pair", sig.MarketPair),
			slog.String("side", string(sig.Side)),
		)
		return skip("duplicate signal delivery"), nil
	}

	state, err := p.accounts.Subaccount(ctx, p.cfg.Address, p.cfg.Subaccount)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("executor: collateral query: %w", err)
	}

	// Strictly greater than the minimum: a balance exactly at the threshold
	// does not trade.
	if state.FreeCollateral <= p.cfg.FreeCollateralMin {
		p.logger.InfoContext(ctx, "free collateral below minimum, skipping order",
			slog.Float64("free_collateral", state.FreeCollateral),
			slog.Float64("minimum", p.cfg.FreeCollateralMin),
		)
		return skip(fmt.Sprintf("free collateral %.2f at or below minimum %.2f",
			state.FreeCollateral, p.cfg.FreeCollateralMin)), nil
	}

	market, err := p.markets.PerpetualMarket(ctx, sig.MarketPair)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("executor: market metadata: %w", err)
	}

	height, err := p.chain.LatestBlockHeight(ctx)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("executor: chain height: %w", err)
	}

	price := p.cfg.PriceFloor
	if sig.Side == domain.OrderSideBuy {
		price = p.cfg.PriceCeiling
	}

	order, err := market.ShortTermOrder(p.ids.Next(), sig.Side, sig.Size, price, height+p.cfg.GoodTilBlocks)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("executor: build order: %w", err)
	}

	result, err := p.submitter.SubmitOrder(ctx, p.cfg.Subaccount, order)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("executor: submit order: %w", err)
	}

	return domain.ExecutionOutcome{
		State:  domain.ExecutionSubmitted,
		TxHash: result.TxHash,
	}, nil
}

// skip builds a skipped outcome with the given reason.
func skip(reason string) domain.ExecutionOutcome {
	return domain.ExecutionOutcome{
		State:  domain.ExecutionSkipped,
		Reason: reason,
	}
}

// fingerprint identifies a signal's content for duplicate suppression.
func fingerprint(sig domain.TradingSignal) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		sig.Strategy, sig.SignalTime, sig.SignalPrice, sig.Side, sig.SizeRaw, sig.MarketPair)
}
