package sim

import (
	"container/heap"
	"time"
)

// CachePolicy governs eviction from an Invoker's warm-container cache
//. AddToCache records a container that finished and is being
// retained for reuse; Evict repeatedly removes the cheapest container,
// by the policy's own priority ordering, until stopCriteria(releasedMemory)
// is true. Evict panics with an InvariantError if the cache is empty on
// entry or runs empty before stopCriteria is satisfied.
type CachePolicy interface {
	AddToCache(cache []*Container, container *Container) []*Container
	Evict(cache []*Container, stopCriteria func(releasedMemory int) bool, newContainer *Container) []*Container
}

// cacheEntry pairs a Container with its eviction priority. Lower priority is
// evicted first.
type cacheEntry struct {
	priority  time.Duration
	container *Container
}

type cacheHeap []cacheEntry

func (h cacheHeap) Len() int            { return len(h) }
func (h cacheHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h cacheHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cacheHeap) Push(x any)         { *h = append(*h, x.(cacheEntry)) }
func (h *cacheHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// LRUCachePolicy evicts the least-recently-reused container first.
// Grounded on _examples/original_source/cache_policy.py's LRUCachePolicy.
type LRUCachePolicy struct{}

func (LRUCachePolicy) AddToCache(cache []*Container, container *Container) []*Container {
	return append(cache, container)
}

func (LRUCachePolicy) Evict(cache []*Container, stopCriteria func(int) bool, newContainer *Container) []*Container {
	if len(cache) == 0 {
		panicInvariant("LRU eviction called on an empty cache")
	}
	h := make(cacheHeap, 0, len(cache))
	for _, c := range cache {
		h = append(h, cacheEntry{priority: c.ReuseTime(), container: c})
	}
	heap.Init(&h)

	released := 0
	for h.Len() > 0 && !stopCriteria(released) {
		entry := heap.Pop(&h).(cacheEntry)
		released += entry.container.Memory()
	}
	if h.Len() == 0 && !stopCriteria(released) {
		panicInvariant("LRU eviction exhausted the cache without satisfying its stop criterion")
	}
	remaining := make([]*Container, 0, h.Len())
	for _, entry := range h {
		remaining = append(remaining, entry.container)
	}
	return remaining
}

// GDSFCachePolicy (Greedy Dual-Size Frequency) evicts the lowest-priority
// container, where priority = stored_clock + use_count*container_init_time/
// memory. The incoming container (if supplied) shields itself: if it would
// be the next eviction victim, eviction is aborted and the whole cache is
// returned, including the containers already popped before it, and the
// aging clock is not advanced. Grounded on
// _examples/original_source/cache_policy.py's GDSFCachePolicy.
type GDSFCachePolicy struct {
	ctx *SimulationContext
}

// NewGDSFCachePolicy creates a GDSFCachePolicy sharing ctx's process-wide
// aging clock.
func NewGDSFCachePolicy(ctx *SimulationContext) *GDSFCachePolicy {
	return &GDSFCachePolicy{ctx: ctx}
}

func (p *GDSFCachePolicy) AddToCache(cache []*Container, container *Container) []*Container {
	container.SetData("GDSF_clock", p.ctx.GDSFClock())
	return append(cache, container)
}

func gdsfPriority(c *Container) time.Duration {
	initCost := c.Invocation.Fun.ContainerInitTime
	weighted := time.Duration(c.UseCount()) * initCost / time.Duration(c.Memory())
	return c.GetData("GDSF_clock") + weighted
}

func (p *GDSFCachePolicy) Evict(cache []*Container, stopCriteria func(int) bool, newContainer *Container) []*Container {
	if len(cache) == 0 {
		panicInvariant("GDSF eviction called on an empty cache")
	}
	h := make(cacheHeap, 0, len(cache))
	for _, c := range cache {
		h = append(h, cacheEntry{priority: gdsfPriority(c), container: c})
	}
	heap.Init(&h)

	released := 0
	var maxClock time.Duration
	var removed []*Container
	for h.Len() > 0 && !stopCriteria(released) {
		entry := heap.Pop(&h).(cacheEntry)
		released += entry.container.Memory()
		if entry.priority > maxClock {
			maxClock = entry.priority
		}
		if newContainer != nil && entry.container.ID == newContainer.ID {
			// The incoming container shields itself: abort eviction, keep it,
			// everything not yet popped, and everything already popped.
			remaining := make([]*Container, 0, h.Len()+1+len(removed))
			for _, e := range h {
				remaining = append(remaining, e.container)
			}
			remaining = append(remaining, entry.container)
			remaining = append(remaining, removed...)
			return remaining
		}
		removed = append(removed, entry.container)
	}
	if h.Len() == 0 && !stopCriteria(released) {
		panicInvariant("GDSF eviction exhausted the cache without satisfying its stop criterion")
	}
	if maxClock > 0 {
		p.ctx.AdvanceGDSFClock(maxClock)
	}
	remaining := make([]*Container, 0, h.Len())
	for _, entry := range h {
		remaining = append(remaining, entry.container)
	}
	return remaining
}

// NewCachePolicy creates a CachePolicy by name. Valid names: LRU, GDSF.
// Panics on an unrecognized name.
func NewCachePolicy(ctx *SimulationContext, name string) CachePolicy {
	switch name {
	case "LRU":
		return LRUCachePolicy{}
	case "GDSF":
		return NewGDSFCachePolicy(ctx)
	default:
		panic(&ConfigError{Field: "cache_policy", Value: name})
	}
}
