package sim

import "time"

// maxLotteryProb caps the probability of choosing SRTF mode, mirroring
// _examples/original_source/job_scheduler.py's LotterySRTFScheduler.max_prob.
const maxLotteryProb = 0.9

// LotterySRTFScheduler learns which function IDs have been observed
// (ctx.knownFunctionIDs, shared across every LotterySRTFScheduler instance
// in the simulation) and switches between SRTF (for known functions, where
// remaining time is a trustworthy signal) and LAS (for everything else,
// including a probabilistic blend of known and unknown jobs). Grounded on
// _examples/original_source/job_scheduler.py's LotterySRTFScheduler.
type LotterySRTFScheduler struct {
	ctx   *SimulationContext
	cores int

	knownJobs   map[string]*Container
	unknownJobs map[string]*Container
	// unknownOrder records unknownJobs' admission order so the partial
	// top-up in Tick never depends on Go's randomized map iteration.
	unknownOrder  []string
	unknownFunIDs map[string][]*Container

	srtf *SRTFScheduler
	las  *LASScheduler
}

// NewLotterySRTFScheduler creates a LotterySRTFScheduler sharing ctx's
// process-wide known-function-ID set.
func NewLotterySRTFScheduler(ctx *SimulationContext, cores int) *LotterySRTFScheduler {
	return &LotterySRTFScheduler{
		ctx:           ctx,
		cores:         cores,
		knownJobs:     make(map[string]*Container),
		unknownJobs:   make(map[string]*Container),
		unknownFunIDs: make(map[string][]*Container),
	}
}

func (s *LotterySRTFScheduler) JobNumber() int {
	return len(s.knownJobs) + len(s.unknownJobs)
}

func (s *LotterySRTFScheduler) HasJob() bool {
	return s.JobNumber() != 0
}

func (s *LotterySRTFScheduler) AddJob(c *Container) {
	isKnown := s.ctx.IsKnownFunction(c.FunID())
	if isKnown {
		s.knownJobs[c.ID] = c
	} else {
		s.unknownJobs[c.ID] = c
		s.unknownOrder = append(s.unknownOrder, c.ID)
		s.unknownFunIDs[c.FunID()] = append(s.unknownFunIDs[c.FunID()], c)
	}
	switch {
	case s.las != nil:
		s.las.AddJob(c)
	case isKnown && s.srtf != nil:
		s.srtf.AddJob(c)
	}
}

func (s *LotterySRTFScheduler) promoteKnown() {
	var toPromote []string
	for funID := range s.unknownFunIDs {
		if s.ctx.IsKnownFunction(funID) {
			toPromote = append(toPromote, funID)
		}
	}
	if len(toPromote) == 0 {
		return
	}
	s.las = nil
	for _, funID := range toPromote {
		containers := s.unknownFunIDs[funID]
		for _, c := range containers {
			delete(s.unknownJobs, c.ID)
			s.removeFromUnknownOrder(c.ID)
			s.AddJob(c)
		}
		delete(s.unknownFunIDs, funID)
	}
}

// removeFromUnknownOrder drops id from unknownOrder once it leaves
// unknownJobs, so the slice never outlives the map entry it tracks.
func (s *LotterySRTFScheduler) removeFromUnknownOrder(id string) {
	for i, existing := range s.unknownOrder {
		if existing == id {
			s.unknownOrder = append(s.unknownOrder[:i], s.unknownOrder[i+1:]...)
			return
		}
	}
}

func (s *LotterySRTFScheduler) Tick(timeSlice time.Duration, clock *VirtualClock) []*Container {
	s.promoteKnown()

	useSRTF := false
	useSRTFCompletedWithLAS := false
	switch {
	case s.JobNumber() <= s.cores:
		useSRTF = false
	case len(s.knownJobs) == 0:
		useSRTF = false
	default:
		p := float64(len(s.knownJobs)) / float64(s.JobNumber())
		if p > maxLotteryProb {
			p = maxLotteryProb
		}
		useSRTF = s.ctx.RNG().ForSubsystem(SubsystemLottery).Float64() < p
		if useSRTF && len(s.knownJobs) < s.cores {
			useSRTF = false
			useSRTFCompletedWithLAS = true
		}
	}

	if useSRTF {
		s.las = nil
		if s.srtf == nil {
			s.srtf = NewSRTFScheduler(s.cores)
			for _, c := range s.knownJobs {
				s.srtf.AddJob(c)
			}
		}
		completed := s.srtf.Tick(timeSlice, clock)
		for _, c := range completed {
			delete(s.knownJobs, c.ID)
		}
		return completed
	}

	s.srtf = nil
	s.las = NewLASScheduler(s.cores)
	for _, c := range s.knownJobs {
		s.las.AddJob(c)
	}
	if useSRTFCompletedWithLAS {
		for _, id := range s.unknownOrder {
			if s.las.JobNumber() >= s.cores {
				break
			}
			c, ok := s.unknownJobs[id]
			if !ok {
				continue
			}
			s.las.AddJob(c)
		}
	} else {
		for _, c := range s.unknownJobs {
			s.las.AddJob(c)
		}
	}

	completed := s.las.Tick(timeSlice, clock)
	for _, c := range completed {
		delete(s.knownJobs, c.ID)
		if _, ok := s.unknownJobs[c.ID]; ok {
			delete(s.unknownJobs, c.ID)
			s.removeFromUnknownOrder(c.ID)
			funID := c.FunID()
			s.ctx.MarkFunctionKnown(funID)
			for _, sibling := range s.unknownFunIDs[funID] {
				if sibling.ID == c.ID {
					continue
				}
				if !c.Invocation.Complete() {
					s.AddJob(sibling)
				}
				s.las = nil
			}
			delete(s.unknownFunIDs, funID)
		}
	}
	return completed
}
