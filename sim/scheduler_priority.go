package sim

import (
	"container/heap"
	"time"
)

// priorityJob pairs a Container with the heap key used to order it. Ties
// are broken by container id for reproducible runs across identical seeds.
type priorityJob struct {
	key       time.Duration
	container *Container
}

type priorityHeap []priorityJob

func (h priorityHeap) Len() int { return len(h) }
func (h priorityHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].container.ID < h[j].container.ID
}
func (h priorityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *priorityHeap) Push(x any)   { *h = append(*h, x.(priorityJob)) }
func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// keyFunc extracts the heap key for a container under a given policy: used
// time for LAS, remaining time for SRTF.
type keyFunc func(*Container) time.Duration

func tickHeap(h *priorityHeap, cores int, timeSlice time.Duration, clock *VirtualClock, key keyFunc) []*Container {
	var completed []*Container
	for h.Len() > 0 && timeSlice > 0 {
		n := min(cores, h.Len())
		batch := make([]*Container, 0, n)
		for range n {
			batch = append(batch, heap.Pop(h).(priorityJob).container)
		}
		timeSlice = runBatch(batch, timeSlice, clock)
		for _, c := range batch {
			if c.Invocation.Complete() {
				completed = append(completed, c)
			} else {
				heap.Push(h, priorityJob{key: key(c), container: c})
			}
		}
	}
	return completed
}

// LASScheduler orders jobs by least attained service (used time): the job
// that has consumed the least CPU time so far runs next.
type LASScheduler struct {
	jobs  priorityHeap
	cores int
}

// NewLASScheduler creates a LASScheduler with the given core count.
func NewLASScheduler(cores int) *LASScheduler {
	return &LASScheduler{cores: cores}
}

func lasKey(c *Container) time.Duration { return c.Invocation.UsedTime() }

func (s *LASScheduler) AddJob(c *Container) {
	heap.Push(&s.jobs, priorityJob{key: lasKey(c), container: c})
}
func (s *LASScheduler) JobNumber() int { return s.jobs.Len() }
func (s *LASScheduler) HasJob() bool   { return s.jobs.Len() != 0 }
func (s *LASScheduler) Tick(timeSlice time.Duration, clock *VirtualClock) []*Container {
	return tickHeap(&s.jobs, s.cores, timeSlice, clock, lasKey)
}

// SRTFScheduler orders jobs by shortest remaining time: the job closest to
// completion runs next.
type SRTFScheduler struct {
	jobs  priorityHeap
	cores int
}

// NewSRTFScheduler creates an SRTFScheduler with the given core count.
func NewSRTFScheduler(cores int) *SRTFScheduler {
	return &SRTFScheduler{cores: cores}
}

func srtfKey(c *Container) time.Duration { return c.Invocation.RemainTime() }

func (s *SRTFScheduler) AddJob(c *Container) {
	heap.Push(&s.jobs, priorityJob{key: srtfKey(c), container: c})
}
func (s *SRTFScheduler) JobNumber() int { return s.jobs.Len() }
func (s *SRTFScheduler) HasJob() bool   { return s.jobs.Len() != 0 }
func (s *SRTFScheduler) Tick(timeSlice time.Duration, clock *VirtualClock) []*Container {
	return tickHeap(&s.jobs, s.cores, timeSlice, clock, srtfKey)
}
