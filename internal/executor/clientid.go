package executor

import (
	"math/rand/v2"
	"sync/atomic"
)

// IDGenerator produces client-assigned order identifiers in [0, MaxClientID).
type IDGenerator interface {
	Next() uint32
}

// RandomID draws ids uniformly at random, matching the exchange client
// libraries. Collisions across rapid sequential invocations are possible;
// operators who need collision-free ids should configure CounterID instead.
type RandomID struct{}

// Next returns a uniformly random client id.
func (RandomID) Next() uint32 {
	return rand.Uint32()
}

// CounterID hands out monotonically increasing ids, unique within the
// process lifetime.
type CounterID struct {
	n atomic.Uint32
}

// Next returns the next id in sequence.
func (c *CounterID) Next() uint32 {
	return c.n.Add(1) - 1
}

// NewIDGenerator maps a configured strategy name to a generator. Unknown
// names fall back to the random strategy.
func NewIDGenerator(strategy string) IDGenerator {
	if strategy == "counter" {
		return &CounterID{}
	}
	return RandomID{}
}
