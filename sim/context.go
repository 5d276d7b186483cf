package sim

import (
	"fmt"
	"time"
)

// SimulationContext holds the process-wide mutable state that id counters,
// LotterySRTFScheduler.known_job_IDs, and GDSFCachePolicy.clock all need to
// share, as an explicit, constructed object so independent runs never leak
// state into each other; a fresh SimulationContext is created per Simulator.
type SimulationContext struct {
	rng *PartitionedRNG

	nextFunctionID    uint64
	nextApplicationID uint64
	nextInvocationID  uint64
	nextContainerID   uint64

	// knownFunctionIDs is the set LotterySRTFScheduler instances consult and
	// grow: a function id is "known" once any invocation of it has
	// completed anywhere in the simulation.
	knownFunctionIDs map[string]struct{}

	// gdsfClock is GDSFCachePolicy's class-level aging clock.
	gdsfClock time.Duration
}

// NewSimulationContext creates a SimulationContext seeded for a single,
// independent simulation run.
func NewSimulationContext(seed int64) *SimulationContext {
	return &SimulationContext{
		rng:              NewPartitionedRNG(NewSimulationKey(seed)),
		knownFunctionIDs: make(map[string]struct{}),
	}
}

// RNG returns the context's partitioned random source.
func (c *SimulationContext) RNG() *PartitionedRNG {
	return c.rng
}

func (c *SimulationContext) nextID(counter *uint64, prefix string) string {
	id := fmt.Sprintf("%s_%d", prefix, *counter)
	*counter++
	return id
}

// IsKnownFunction reports whether any invocation of fun_id has ever
// completed in this simulation.
func (c *SimulationContext) IsKnownFunction(funID string) bool {
	_, ok := c.knownFunctionIDs[funID]
	return ok
}

// MarkFunctionKnown records that fun_id has completed at least one
// invocation. Monotonic: once known, a function stays known.
func (c *SimulationContext) MarkFunctionKnown(funID string) {
	c.knownFunctionIDs[funID] = struct{}{}
}

// GDSFClock returns the current value of the GDSF aging clock.
func (c *SimulationContext) GDSFClock() time.Duration {
	return c.gdsfClock
}

// AdvanceGDSFClock sets the GDSF aging clock to newClock. Monotonic: a
// newClock smaller than the current value panics with an InvariantError, so
// callers never observe the clock go backwards.
func (c *SimulationContext) AdvanceGDSFClock(newClock time.Duration) {
	if newClock < c.gdsfClock {
		panicInvariant("GDSF clock must be non-decreasing: current=%s new=%s", c.gdsfClock, newClock)
	}
	c.gdsfClock = newClock
}
