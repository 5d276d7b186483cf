package sim

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// WorkloadGenerator produces the invocation burst for one scaled
// minute-of-day. Implemented by sim/workload.AzureWorkload; kept as an
// interface here (rather than importing that package) so sim stays free of a
// dependency on its own workload generator's internals.
type WorkloadGenerator interface {
	GenerateInvocations(minuteOfDay int) []*Invocation
}

const simulatorTimeSlice = time.Second

// Simulator is the top-level driver: one global VirtualClock, one workload
// generator, one controller, and N invokers. Grounded on
// _examples/original_source/simulator.py's Simulator.
type Simulator struct {
	ctx      *SimulationContext
	clock    *VirtualClock
	workload WorkloadGenerator
	ctrl     Controller
	invokers []InvokerNode

	simulationMinutes int
}

// Config collects the parameters NewSimulator needs beyond the workload
// generator itself.
type Config struct {
	SchedulerType     string
	CachePolicy       string // only consulted when ControllerType is "cacheaware"
	ControllerType    string
	InvokerCount      int
	InvokerMemory     int // MB
	InvokerCores      int
	SimulationMinutes int
}

// NewSimulator builds the invoker fleet: CacheInvoker if ctrl is cache-aware,
// plain Invoker otherwise, mirroring the original's invoker_cls selection.
func NewSimulator(ctx *SimulationContext, workload WorkloadGenerator, cfg Config) *Simulator {
	if cfg.InvokerCount <= 0 {
		panic(&ConfigError{Field: "invoker_count", Value: "must be positive"})
	}
	ctrl := NewController(cfg.ControllerType)

	invokers := make([]InvokerNode, cfg.InvokerCount)
	useCache := cfg.ControllerType == "cacheaware"
	for i := range invokers {
		id := fnInvokerID(i)
		if useCache {
			invokers[i] = NewCacheInvoker(ctx, id, cfg.InvokerMemory, cfg.InvokerCores, cfg.SchedulerType, cfg.CachePolicy)
		} else {
			invokers[i] = NewInvoker(ctx, id, cfg.InvokerMemory, cfg.InvokerCores, cfg.SchedulerType)
		}
	}

	return &Simulator{
		ctx:               ctx,
		clock:             NewVirtualClock(),
		workload:          workload,
		ctrl:              ctrl,
		invokers:          invokers,
		simulationMinutes: cfg.SimulationMinutes,
	}
}

func fnInvokerID(i int) string {
	return "invoker_" + strconv.Itoa(i)
}

// Run drives the simulator through simulationMinutes of virtual time, then
// drains whatever invocations and jobs remain, and returns the aggregated
// slowdown summary.
func (s *Simulator) Run() SlowdownSummary {
	const batchesPerMinute = 60

	for s.clock.ElapsedMinutes() < s.simulationMinutes {
		curMinute := s.clock.ElapsedMinutes()
		logrus.WithField("minute", curMinute).Debug("generating invocations")

		scaledMinute := curMinute * s.simulationMinutes / (24 * 60)
		invocations := s.workload.GenerateInvocations(scaledMinute)
		if len(invocations) == 0 {
			panic(&ConfigError{Field: "workload", Value: fmt.Sprintf("minute %d produced no invocations", scaledMinute)})
		}

		for _, batch := range splitIntoBatches(invocations, batchesPerMinute) {
			s.enqueueAndDrain(batch)
			s.runInvokersFor(simulatorTimeSlice)
			s.clock.Advance(simulatorTimeSlice)
			s.syncClocks()
		}
	}

	for s.ctrl.HasInvocation() || s.anyInvokerHasJob() {
		s.enqueueAndDrain(nil)
		s.runInvokersFor(simulatorTimeSlice)
		s.clock.Advance(simulatorTimeSlice)
		s.syncClocks()
	}

	return SummarizeSlowdowns(s.invokers)
}

// splitIntoBatches divides invocations into exactly n slices, the last
// absorbing any remainder, mirroring the original's integer-division split.
// When there are fewer than n invocations, batchSize is 0 and the earlier
// slices come back empty while the last absorbs everything — callers must
// tolerate empty batches rather than treat them as the empty-minute case.
// An empty invocations list produces no batches.
func splitIntoBatches(invocations []*Invocation, n int) [][]*Invocation {
	if len(invocations) == 0 {
		return nil
	}
	batchSize := len(invocations) / n
	batches := make([][]*Invocation, 0, n)
	rest := invocations
	for i := 0; i < n; i++ {
		if i+1 < n {
			batches = append(batches, rest[:batchSize])
			rest = rest[batchSize:]
		} else {
			batches = append(batches, rest)
		}
	}
	return batches
}

func (s *Simulator) enqueueAndDrain(batch []*Invocation) {
	for _, inv := range batch {
		inv.InvokeTime = s.clock.TimePoint()
		s.ctrl.QueueInvocation(inv)
	}
	for s.ctrl.RouteInvocation(s.invokers, s.clock) {
	}
}

func (s *Simulator) runInvokersFor(d time.Duration) {
	for _, inv := range s.invokers {
		inv.Run(d)
	}
}

func (s *Simulator) syncClocks() {
	for _, inv := range s.invokers {
		inv.SyncLocalClock(s.clock)
	}
}

func (s *Simulator) anyInvokerHasJob() bool {
	for _, inv := range s.invokers {
		if inv.HasJob() {
			return true
		}
	}
	return false
}
