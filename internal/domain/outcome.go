package domain

// ExecutionState classifies how far the order sub-pipeline ran for one signal.
type ExecutionState string

const (
	// ExecutionSubmitted means an order was built, signed and broadcast.
	ExecutionSubmitted ExecutionState = "submitted"
	// ExecutionSkipped means the sub-pipeline was deliberately not run
	// (invalid side, duplicate signal, insufficient collateral). Skipping is
	// not a failure: the invocation still completes and notifies.
	ExecutionSkipped ExecutionState = "skipped"
)

// ExecutionOutcome summarizes the order sub-pipeline for one invocation.
type ExecutionOutcome struct {
	State  ExecutionState
	Reason string // populated when State is ExecutionSkipped
	TxHash string // populated when State is ExecutionSubmitted
}
