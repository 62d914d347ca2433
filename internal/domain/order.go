package domain

// MaxClientID bounds the half-open range [0, MaxClientID) that client-assigned
// order identifiers are drawn from. Matches the exchange's uint32 client id.
const MaxClientID = 1 << 32

// TimeInForce selects the exchange's fill policy for an order.
type TimeInForce string

const (
	// TimeInForceUnspecified defers to the exchange's default market-order
	// semantics.
	TimeInForceUnspecified TimeInForce = "TIME_IN_FORCE_UNSPECIFIED"
	TimeInForceIOC         TimeInForce = "TIME_IN_FORCE_IOC"
	TimeInForcePostOnly    TimeInForce = "TIME_IN_FORCE_POST_ONLY"
)

// OrderDescriptor is a fully constructed short-term exchange order, ready to
// be signed and submitted. Price here is a sentinel bound (floor for sell,
// ceiling for buy) signalling "fill at any price", not a limit.
type OrderDescriptor struct {
	ClientID     uint32
	ClobPairID   uint32
	Side         OrderSide
	Size         float64
	Price        float64
	Quantums     uint64 // Size quantized to the market's base atoms
	Subticks     uint64 // Price quantized to the market's subtick grid
	GoodTilBlock uint32 // last chain height at which the order may fill
	TimeInForce  TimeInForce
	ReduceOnly   bool
}

// OrderResult reports the outcome of one transaction submission.
type OrderResult struct {
	TxHash string
	Code   uint32 // zero means the node accepted the transaction
	RawLog string
}
