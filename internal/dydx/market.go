package dydx

import (
	"fmt"
	"math"

	"github.com/avelex/tradehook/internal/domain"
)

// quoteQuantumsAtomicResolution is the fixed resolution of the quote asset
// (USDC) on the chain.
const quoteQuantumsAtomicResolution = -6

// Market carries the per-market constraints needed to quantize human-readable
// size and price onto the chain's integer grid.
type Market struct {
	Ticker                    string
	ClobPairID                uint32
	AtomicResolution          int32
	QuantumConversionExponent int32
	SubticksPerTick           uint64
	StepBaseQuantums          uint64
}

// Quantums converts a display size into base quantums, rounded down to the
// market's step size.
func (m Market) Quantums(size float64) uint64 {
	raw := size * math.Pow10(int(-m.AtomicResolution))
	quantums := uint64(math.Round(raw))
	return quantums - quantums%m.StepBaseQuantums
}

// Subticks converts a display price into subticks, rounded down to the
// market's tick size. A zero price maps to zero subticks, which the chain
// reads as "sell at any price" for short-term market orders.
func (m Market) Subticks(price float64) uint64 {
	exponent := int(m.AtomicResolution - m.QuantumConversionExponent - quoteQuantumsAtomicResolution)
	raw := price * math.Pow10(exponent)
	subticks := uint64(math.Round(raw))
	return subticks - subticks%m.SubticksPerTick
}

// ShortTermOrder builds a short-term market order descriptor. price is the
// sentinel bound (floor for sell, ceiling for buy), not a limit; goodTilBlock
// bounds the order's validity. The descriptor is fully determined by its
// inputs; no partial descriptor is ever returned.
func (m Market) ShortTermOrder(clientID uint32, side domain.OrderSide, size, price float64, goodTilBlock uint32) (domain.OrderDescriptor, error) {
	if !side.Valid() {
		return domain.OrderDescriptor{}, fmt.Errorf("dydx: side %q: %w", side, domain.ErrInvalidOrder)
	}
	if size <= 0 {
		return domain.OrderDescriptor{}, fmt.Errorf("dydx: size %v: %w", size, domain.ErrInvalidOrder)
	}

	quantums := m.Quantums(size)
	if quantums == 0 {
		return domain.OrderDescriptor{}, fmt.Errorf("dydx: size %v below step size: %w", size, domain.ErrInvalidOrder)
	}

	return domain.OrderDescriptor{
		ClientID:     clientID,
		ClobPairID:   m.ClobPairID,
		Side:         side,
		Size:         size,
		Price:        price,
		Quantums:     quantums,
		Subticks:     m.Subticks(price),
		GoodTilBlock: goodTilBlock,
		TimeInForce:  domain.TimeInForceUnspecified,
		ReduceOnly:   false,
	}, nil
}
