package domain

// OrderSide indicates the trade direction requested by a signal.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether the side names an executable trade direction. Signals
// with any other side (including an empty one) skip the order sub-pipeline.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// TradingSignal is the normalized trade instruction extracted from one webhook
// delivery. Only Side gates execution; every other field is advisory and may
// be empty when the request did not carry it.
type TradingSignal struct {
	Strategy    string
	SignalTime  string
	SignalPrice string
	Side        OrderSide
	Size        float64
	SizeRaw     string // Size as reported back to the caller; "" when absent
	MarketPair  string // normalized spot pair, e.g. "ETH-USD"
}

// AccountState is a point-in-time snapshot of the trading subaccount. It is
// never cached across pipeline stages.
type AccountState struct {
	FreeCollateral float64
}
