package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two runs
// with the same SimulationKey and identical configuration produce
// bit-identical slowdown statistics.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem names partition the master seed so that, e.g., adding a new
// function-timing draw never perturbs the lottery scheduler's Bernoulli
// sequence.
const (
	SubsystemFunctionTiming = "function-timing"
	SubsystemWorkload       = "workload"
	SubsystemLottery        = "lottery"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem, derived from one master SimulationKey.
//
// Derivation: masterSeed XOR fnv1a64(subsystemName). Not thread-safe — must
// be used from a single goroutine, matching the simulator's single-threaded
// execution model.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same cached *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
