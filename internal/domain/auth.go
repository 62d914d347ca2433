package domain

// Effect is the outcome of an authorization check.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// AuthDecision is a policy fragment scoped to exactly the method+resource
// that was requested, never broader.
type AuthDecision struct {
	Principal string
	Effect    Effect
	Resource  string
}

// Allowed reports whether the decision permits the request.
func (d AuthDecision) Allowed() bool {
	return d.Effect == EffectAllow
}
