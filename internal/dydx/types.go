package dydx

import (
	"fmt"
	"strconv"

	"github.com/avelex/tradehook/internal/domain"
)

// APIMarket is the indexer's perpetual-market record. Numeric-looking fields
// arrive as strings; resolutions arrive as signed powers of ten.
type APIMarket struct {
	Ticker                    string `json:"ticker"`
	ClobPairID                string `json:"clobPairId"`
	AtomicResolution          int32  `json:"atomicResolution"`
	QuantumConversionExponent int32  `json:"quantumConversionExponent"`
	SubticksPerTick           uint64 `json:"subticksPerTick"`
	StepBaseQuantums          uint64 `json:"stepBaseQuantums"`
	Status                    string `json:"status"`
}

// ToMarket converts the wire record into the quantization helper, validating
// the fields the order builder depends on.
func (m APIMarket) ToMarket() (Market, error) {
	pairID, err := strconv.ParseUint(m.ClobPairID, 10, 32)
	if err != nil {
		return Market{}, fmt.Errorf("dydx: market %s: bad clobPairId %q: %w", m.Ticker, m.ClobPairID, err)
	}
	if m.SubticksPerTick == 0 || m.StepBaseQuantums == 0 {
		return Market{}, fmt.Errorf("dydx: market %s: zero tick or step constraints", m.Ticker)
	}
	return Market{
		Ticker:                    m.Ticker,
		ClobPairID:                uint32(pairID),
		AtomicResolution:          m.AtomicResolution,
		QuantumConversionExponent: m.QuantumConversionExponent,
		SubticksPerTick:           m.SubticksPerTick,
		StepBaseQuantums:          m.StepBaseQuantums,
	}, nil
}

// APISubaccount is the indexer's subaccount record, trimmed to the field the
// collateral guard reads.
type APISubaccount struct {
	Address        string `json:"address"`
	SubaccountNum  int    `json:"subaccountNumber"`
	FreeCollateral string `json:"freeCollateral"`
}

// ToAccountState converts the wire record into a point-in-time snapshot.
func (s APISubaccount) ToAccountState() (domain.AccountState, error) {
	fc, err := strconv.ParseFloat(s.FreeCollateral, 64)
	if err != nil {
		return domain.AccountState{}, fmt.Errorf("dydx: subaccount %s/%d: bad freeCollateral %q: %w",
			s.Address, s.SubaccountNum, s.FreeCollateral, err)
	}
	return domain.AccountState{FreeCollateral: fc}, nil
}
