package sim

import "time"

// invokerTimeSlice is the scheduler tick granularity.
const invokerTimeSlice = 10 * time.Millisecond

// noCacheIdx marks "no warm container reused" in AddNewJob's cacheIdx
// parameter.
const noCacheIdx = -1

// PerformanceStat is the snapshot an Invoker reports to a Controller at each
// routing attempt.
type PerformanceStat struct {
	FreeMemory int
	Cores      int
	JobNumber  int
	// Cache is non-nil only for a CacheInvoker.
	Cache []*Container
}

// InvokerNode is the interface a Controller routes invocations through. Both
// Invoker and CacheInvoker implement it.
type InvokerNode interface {
	ID() string
	GetPerformanceStat() PerformanceStat
	AddNewJob(invocation *Invocation, clock *VirtualClock, cacheIdx int)
	Run(duration time.Duration)
	SyncLocalClock(global *VirtualClock)
	HasJob() bool
	Slowdowns() []float64
}

// Invoker owns memory accounting, one Scheduler, a local VirtualClock, and
// the list of completed invocations' slowdowns. Grounded on
// _examples/original_source/invoker.py's Invoker.
type Invoker struct {
	id string

	ctx *SimulationContext

	totalMemory int
	freeMemory  int
	cores       int

	scheduler Scheduler
	clock     *VirtualClock

	slowdowns []float64

	// onFinish lets CacheInvoker extend completion handling (retain the
	// container in its cache) without Go-style virtual dispatch.
	onFinish func([]*Container)
}

// NewInvoker constructs a plain (cache-less) Invoker.
func NewInvoker(ctx *SimulationContext, id string, memory, cores int, schedulerType string) *Invoker {
	if memory <= 0 {
		panicInvariant("Invoker memory must be positive, got %d", memory)
	}
	inv := &Invoker{
		id:          id,
		ctx:         ctx,
		totalMemory: memory,
		freeMemory:  memory,
		cores:       cores,
		scheduler:   NewScheduler(ctx, schedulerType, cores),
		clock:       NewVirtualClock(),
	}
	inv.onFinish = inv.releaseAndRecord
	return inv
}

// ID returns the invoker's identity.
func (inv *Invoker) ID() string { return inv.id }

// HasJob reports whether the invoker's scheduler currently holds any job.
func (inv *Invoker) HasJob() bool {
	return inv.scheduler.HasJob()
}

// Slowdowns returns the slowdowns of every invocation this invoker has
// completed so far.
func (inv *Invoker) Slowdowns() []float64 {
	return inv.slowdowns
}

// Load is job count divided by core count, the same ratio the controllers
// compute from a PerformanceStat snapshot.
func (inv *Invoker) Load() float64 {
	return float64(inv.scheduler.JobNumber()) / float64(inv.cores)
}

// FreeMemory returns the invoker's currently free memory.
func (inv *Invoker) FreeMemory() int {
	return inv.freeMemory
}

// TotalMemory returns the invoker's total memory capacity.
func (inv *Invoker) TotalMemory() int {
	return inv.totalMemory
}

// AddNewJob admits invocation to the scheduler. A plain Invoker has no
// cache, so cacheIdx must be noCacheIdx.
func (inv *Invoker) AddNewJob(invocation *Invocation, clock *VirtualClock, cacheIdx int) {
	if cacheIdx != noCacheIdx {
		panicInvariant("plain Invoker %s received a cache index", inv.id)
	}
	inv.freeMemory -= invocation.Memory()
	if inv.freeMemory < 0 {
		panicInvariant("invoker %s admitted invocation %s with insufficient memory", inv.id, invocation.ID)
	}
	container := NewContainer(inv.ctx, invocation, clock)
	inv.scheduler.AddJob(container)
}

// GetPerformanceStat returns the invoker's current stats for a Controller's
// snapshot.
func (inv *Invoker) GetPerformanceStat() PerformanceStat {
	return PerformanceStat{
		FreeMemory: inv.freeMemory,
		Cores:      inv.cores,
		JobNumber:  inv.scheduler.JobNumber(),
	}
}

// SyncLocalClock sets the invoker's local clock to global's reading.
// Precondition: local <= global (enforced by VirtualClock.SyncFrom).
func (inv *Invoker) SyncLocalClock(global *VirtualClock) {
	inv.clock.SyncFrom(global)
}

// Run advances the invoker's scheduler through duration of virtual time, in
// invokerTimeSlice ticks, releasing memory and recording slowdowns for every
// completed invocation.
func (inv *Invoker) Run(duration time.Duration) {
	numTicks := int(duration / invokerTimeSlice)
	for range numTicks {
		if !inv.scheduler.HasJob() {
			return
		}
		finished := inv.scheduler.Tick(invokerTimeSlice, inv.clock)
		if len(finished) > 0 {
			inv.onFinish(finished)
			if !inv.scheduler.HasJob() && inv.freeMemory != inv.totalMemory {
				panicInvariant("invoker %s has no jobs but free_memory (%d) != total_memory (%d)", inv.id, inv.freeMemory, inv.totalMemory)
			}
		}
	}
}

// releaseAndRecord is the cache-less completion handler: release memory and
// record the invocation's slowdown.
func (inv *Invoker) releaseAndRecord(finished []*Container) {
	for _, c := range finished {
		inv.freeMemory += c.Memory()
		inv.slowdowns = append(inv.slowdowns, c.Invocation.Slowdown())
	}
}
