package sim

// CacheInvoker extends Invoker with a warm-container cache: completed
// containers are retained (rather than discarded) for reuse by a later
// invocation, subject to cachePolicy's eviction when memory runs out.
// Grounded on _examples/original_source/invoker.py's CacheInvoker.
type CacheInvoker struct {
	*Invoker

	cache       []*Container
	cachePolicy CachePolicy
}

// NewCacheInvoker constructs a CacheInvoker with an empty cache.
func NewCacheInvoker(ctx *SimulationContext, id string, memory, cores int, schedulerType, cachePolicyName string) *CacheInvoker {
	ci := &CacheInvoker{
		Invoker:     NewInvoker(ctx, id, memory, cores, schedulerType),
		cachePolicy: NewCachePolicy(ctx, cachePolicyName),
	}
	ci.onFinish = ci.onContainersFinished
	return ci
}

// FreeMemoryWithoutCache is the usable free memory once the memory notionally
// held by cached (idle) containers is excluded. Kept as its own accessor
// so callers never confuse it with FreeMemory: a finished
// invocation's memory is released back into free_memory immediately, but a
// cached container keeps occupying real memory until it is evicted.
func (ci *CacheInvoker) FreeMemoryWithoutCache() int {
	total := ci.freeMemory
	for _, c := range ci.cache {
		total -= c.Memory()
	}
	return total
}

// AddNewJob reuses a cached container at cacheIdx when given, otherwise
// constructs a fresh one and evicts from the cache if the (cache-excluded)
// free memory has gone negative.
func (ci *CacheInvoker) AddNewJob(invocation *Invocation, clock *VirtualClock, cacheIdx int) {
	if cacheIdx != noCacheIdx {
		if cacheIdx < 0 || cacheIdx >= len(ci.cache) {
			panicInvariant("CacheInvoker %s: cache index %d out of range (cache size %d)", ci.id, cacheIdx, len(ci.cache))
		}
		container := ci.cache[cacheIdx]
		ci.cache = append(ci.cache[:cacheIdx:cacheIdx], ci.cache[cacheIdx+1:]...)
		container.LoadInvocation(invocation, clock)
		ci.scheduler.AddJob(container)
		ci.freeMemory -= invocation.Memory()
		return
	}

	container := NewContainer(ci.ctx, invocation, clock)
	ci.scheduler.AddJob(container)
	ci.freeMemory -= invocation.Memory()

	if deficit := ci.FreeMemoryWithoutCache(); deficit < 0 {
		ci.cache = ci.cachePolicy.Evict(ci.cache, func(released int) bool {
			return deficit+released >= 0
		}, nil)
		if ci.FreeMemoryWithoutCache() < 0 {
			panicInvariant("CacheInvoker %s: eviction failed to restore non-negative free_memory_without_cache", ci.id)
		}
	}
}

// GetPerformanceStat reports the base stats plus the current cache contents.
func (ci *CacheInvoker) GetPerformanceStat() PerformanceStat {
	stat := ci.Invoker.GetPerformanceStat()
	stat.Cache = ci.cache
	return stat
}

// onContainersFinished releases memory and records slowdowns (the base
// behavior), then retains every finished container in the cache.
func (ci *CacheInvoker) onContainersFinished(finished []*Container) {
	ci.releaseAndRecord(finished)
	for _, c := range finished {
		ci.cache = ci.cachePolicy.AddToCache(ci.cache, c)
	}
}

// GetCacheHit scans cache for the best reuse candidate for invocation and
// returns (cacheIdx, cacheLevel): 0 function-exact, 1 same-application,
// 2 memory-sufficient generic, 3 miss. cacheIdx is noCacheIdx at level 3.
func GetCacheHit(cache []*Container, invocation *Invocation) (cacheIdx int, cacheLevel int) {
	cacheIdx = noCacheIdx
	cacheLevel = 3
	minMemory := -1

	for idx, c := range cache {
		if c.FunID() == invocation.Fun.ID {
			return idx, 0
		}
		if cacheLevel == 1 {
			continue
		}
		if c.AppID() == invocation.App.ID {
			cacheLevel = 1
			cacheIdx = idx
			continue
		}
		if invocation.Memory() <= c.Memory() && (minMemory == -1 || c.Memory() < minMemory) {
			cacheIdx = idx
			cacheLevel = 2
			minMemory = c.Memory()
		}
	}
	return cacheIdx, cacheLevel
}
