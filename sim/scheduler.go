package sim

import "time"

// Scheduler is the per-node job scheduler interface. Tick
// drains timeSlice by repeatedly selecting a batch of at most `cores`
// runnable containers, advancing them in lockstep, and reporting the
// containers that complete.
type Scheduler interface {
	AddJob(c *Container)
	JobNumber() int
	HasJob() bool
	Tick(timeSlice time.Duration, clock *VirtualClock) []*Container
}

// runBatch advances every container in batch by the same delta — the
// smaller of timeSlice and the shortest remaining time among the batch —
// then advances clock by that delta. Returns the time slice left over for
// the next batch. Grounded on
// _examples/original_source/job_scheduler.py's Scheduler._run_batch.
func runBatch(batch []*Container, timeSlice time.Duration, clock *VirtualClock) time.Duration {
	if len(batch) == 0 {
		panicInvariant("runBatch called with an empty batch")
	}
	delta := batch[0].Invocation.RemainTime()
	for _, c := range batch[1:] {
		if r := c.Invocation.RemainTime(); r < delta {
			delta = r
		}
	}
	if timeSlice < delta {
		delta = timeSlice
	}
	for _, c := range batch {
		if c.Invocation.Complete() {
			panicInvariant("scheduler received an already-completed container %s", c.ID)
		}
		c.Invocation.Run(delta, clock)
	}
	clock.Advance(delta)
	return timeSlice - delta
}

// FIFOScheduler runs jobs in strict arrival order. Incomplete members of a
// batch stay at the head of the queue and are re-selected for the remaining
// slice.
type FIFOScheduler struct {
	jobs  []*Container
	cores int
}

// NewFIFOScheduler creates a FIFOScheduler with the given core count.
func NewFIFOScheduler(cores int) *FIFOScheduler {
	return &FIFOScheduler{cores: cores}
}

func (s *FIFOScheduler) AddJob(c *Container) { s.jobs = append(s.jobs, c) }
func (s *FIFOScheduler) JobNumber() int      { return len(s.jobs) }
func (s *FIFOScheduler) HasJob() bool        { return len(s.jobs) != 0 }

func (s *FIFOScheduler) Tick(timeSlice time.Duration, clock *VirtualClock) []*Container {
	var completed []*Container
	for len(s.jobs) > 0 && timeSlice > 0 {
		n := min(s.cores, len(s.jobs))
		batch := s.jobs[:n]
		timeSlice = runBatch(batch, timeSlice, clock)
		for i := n - 1; i >= 0; i-- {
			if s.jobs[i].Invocation.Complete() {
				completed = append(completed, s.jobs[i])
				s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			}
		}
	}
	return completed
}

// RRScheduler behaves like FIFOScheduler, except non-completed members of a
// batch move to the tail of the queue after each batch.
type RRScheduler struct {
	jobs  []*Container
	cores int
}

// NewRRScheduler creates an RRScheduler with the given core count.
func NewRRScheduler(cores int) *RRScheduler {
	return &RRScheduler{cores: cores}
}

func (s *RRScheduler) AddJob(c *Container) { s.jobs = append(s.jobs, c) }
func (s *RRScheduler) JobNumber() int      { return len(s.jobs) }
func (s *RRScheduler) HasJob() bool        { return len(s.jobs) != 0 }

func (s *RRScheduler) Tick(timeSlice time.Duration, clock *VirtualClock) []*Container {
	var completed []*Container
	for len(s.jobs) > 0 && timeSlice > 0 {
		n := min(s.cores, len(s.jobs))
		batch := s.jobs[:n]
		remain := s.jobs[n:]
		timeSlice = runBatch(batch, timeSlice, clock)
		tail := make([]*Container, 0, len(remain))
		tail = append(tail, remain...)
		for _, c := range batch {
			if c.Invocation.Complete() {
				completed = append(completed, c)
			} else {
				tail = append(tail, c)
			}
		}
		s.jobs = tail
	}
	return completed
}

// NewScheduler creates a Scheduler by name. Valid names: FIFO, RR, SRTF,
// LAS, LotterySRTF. Panics on an unrecognized name.
func NewScheduler(ctx *SimulationContext, name string, cores int) Scheduler {
	switch name {
	case "FIFO":
		return NewFIFOScheduler(cores)
	case "RR":
		return NewRRScheduler(cores)
	case "SRTF":
		return NewSRTFScheduler(cores)
	case "LAS":
		return NewLASScheduler(cores)
	case "LotterySRTF":
		return NewLotterySRTFScheduler(ctx, cores)
	default:
		panic(&ConfigError{Field: "scheduler_type", Value: name})
	}
}
