package dydx

import (
	"testing"

	"github.com/avelex/tradehook/internal/domain"
)

// ethMarket mirrors the testnet ETH-USD perpetual constraints.
func ethMarket() Market {
	return Market{
		Ticker:                    "ETH-USD",
		ClobPairID:                1,
		AtomicResolution:          -9,
		QuantumConversionExponent: -9,
		SubticksPerTick:           100000,
		StepBaseQuantums:          1000000,
	}
}

func TestQuantums(t *testing.T) {
	m := ethMarket()

	if got := m.Quantums(1.5); got != 1_500_000_000 {
		t.Fatalf("Quantums(1.5) = %d, want 1500000000", got)
	}
	// Rounded down onto the step grid.
	if got := m.Quantums(0.0000015); got != 1_000_000 {
		t.Fatalf("Quantums(0.0000015) = %d, want 1000000", got)
	}
	if got := m.Quantums(0.0000001); got != 0 {
		t.Fatalf("sizes below one step must quantize to zero, got %d", got)
	}
}

func TestSubticks(t *testing.T) {
	m := ethMarket()

	if got := m.Subticks(3000); got != 3_000_000_000 {
		t.Fatalf("Subticks(3000) = %d, want 3000000000", got)
	}
	if got := m.Subticks(0); got != 0 {
		t.Fatalf("Subticks(0) = %d, want 0", got)
	}
}

func TestShortTermOrderSentinelPrices(t *testing.T) {
	m := ethMarket()

	buy, err := m.ShortTermOrder(7, domain.OrderSideBuy, 1.5, 4000, 110)
	if err != nil {
		t.Fatalf("buy order: %v", err)
	}
	if buy.Price != 4000 {
		t.Fatalf("buy price = %v, want the configured ceiling 4000", buy.Price)
	}
	if buy.GoodTilBlock != 110 {
		t.Fatalf("goodTilBlock = %d, want 110", buy.GoodTilBlock)
	}
	if buy.TimeInForce != domain.TimeInForceUnspecified {
		t.Fatalf("timeInForce = %q, want unspecified", buy.TimeInForce)
	}
	if buy.ReduceOnly {
		t.Fatalf("reduceOnly must default to false")
	}

	sell, err := m.ShortTermOrder(8, domain.OrderSideSell, 1.5, 0, 110)
	if err != nil {
		t.Fatalf("sell order: %v", err)
	}
	if sell.Price != 0 || sell.Subticks != 0 {
		t.Fatalf("sell price must be the floor 0, got price=%v subticks=%d", sell.Price, sell.Subticks)
	}
}

func TestShortTermOrderRejectsInvalidInputs(t *testing.T) {
	m := ethMarket()

	if _, err := m.ShortTermOrder(1, domain.OrderSide("hold"), 1, 4000, 10); err == nil {
		t.Fatalf("invalid side must not produce a descriptor")
	}
	if _, err := m.ShortTermOrder(1, domain.OrderSideBuy, 0, 4000, 10); err == nil {
		t.Fatalf("non-positive size must not produce a descriptor")
	}
	if _, err := m.ShortTermOrder(1, domain.OrderSideBuy, 0.0000001, 4000, 10); err == nil {
		t.Fatalf("size below step must not produce a descriptor")
	}
}
