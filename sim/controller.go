package sim

// Controller is a router: it holds a FIFO queue of invocations and, at each
// call to RouteInvocation, picks one invoker to admit the queue head into.
// Grounded on _examples/original_source/controller.py's Controller.
type Controller interface {
	QueueInvocation(inv *Invocation)
	HasInvocation() bool
	RouteInvocation(invokers []InvokerNode, clock *VirtualClock) bool
}

// invokerSnapshot is the per-invoker state captured at the start of a
// RouteInvocation call, before any admission decision mutates it.
type invokerSnapshot struct {
	freeMemory int
	jobNumber  int
	cores      int
	cache      []*Container
}

// baseController implements the queueing and stat-snapshot machinery shared
// by every Controller variant. decide is the only part that differs between
// LeastLoad and CacheAware.
type baseController struct {
	queue []*Invocation
	stats []invokerSnapshot

	decide func(mask []bool, stats []invokerSnapshot, invocation *Invocation) (invokerIdx, cacheIdx, cacheLevel int)
}

func (c *baseController) QueueInvocation(inv *Invocation) {
	c.queue = append(c.queue, inv)
}

func (c *baseController) HasInvocation() bool {
	return len(c.queue) != 0
}

func (c *baseController) collectStats(invokers []InvokerNode) {
	c.stats = make([]invokerSnapshot, len(invokers))
	for i, inv := range invokers {
		stat := inv.GetPerformanceStat()
		c.stats[i] = invokerSnapshot{
			freeMemory: stat.FreeMemory,
			jobNumber:  stat.JobNumber,
			cores:      stat.Cores,
			cache:      stat.Cache,
		}
	}
}

// RouteInvocation snapshots invoker stats, checks whether any invoker has
// enough free memory for the queue head, and if so pops it, decides an
// invoker via c.decide, adjusts remain_time per the chosen cache level, and
// admits the invocation. Returns false (without consuming the queue head) if
// the queue is empty or no invoker currently fits it.
func (c *baseController) RouteInvocation(invokers []InvokerNode, clock *VirtualClock) bool {
	if !c.HasInvocation() {
		return false
	}
	c.collectStats(invokers)

	head := c.queue[0]
	mask := make([]bool, len(c.stats))
	any := false
	for i, s := range c.stats {
		if s.freeMemory >= head.Memory() {
			mask[i] = true
			any = true
		}
	}
	if !any {
		return false
	}

	c.queue = c.queue[1:]
	invokerIdx, cacheIdx, cacheLevel := c.decide(mask, c.stats, head)

	switch cacheLevel {
	case 0:
		head.SetRemainingCost(head.Fun.ExecTime)
	case 1:
		head.SetRemainingCost(head.Fun.ExecTime + head.Fun.AppInitTime)
	case 2:
		head.SetRemainingCost(head.Fun.ExecTime + head.Fun.AppInitTime + head.Fun.ContainerInitTime)
	default:
		head.SetRemainingCost(head.Fun.TotalCost())
	}

	idx := cacheIdx
	if cacheLevel == 3 {
		idx = noCacheIdx
	}
	invokers[invokerIdx].AddNewJob(head, clock, idx)
	return true
}

func load(s invokerSnapshot) float64 {
	return float64(s.jobNumber) / float64(s.cores)
}

// NewLeastLoadController routes every invocation to the masked invoker with
// the smallest job_number/cores ratio. It never reuses a cache.
func NewLeastLoadController() Controller {
	return &baseController{decide: decideLeastLoad}
}

func decideLeastLoad(mask []bool, stats []invokerSnapshot, _ *Invocation) (int, int, int) {
	best := -1
	var bestLoad float64
	for i, ok := range mask {
		if !ok {
			continue
		}
		l := load(stats[i])
		if best == -1 || l < bestLoad {
			best = i
			bestLoad = l
		}
	}
	if best == -1 {
		panicInvariant("decideLeastLoad: no masked invoker")
	}
	return best, noCacheIdx, 3
}

// NewCacheAwareController prefers an idle invoker with an empty cache
// (greedy cold placement); otherwise it picks the masked invoker offering
// the lowest cache_level, breaking ties by lower load.
func NewCacheAwareController() Controller {
	return &baseController{decide: decideCacheAware}
}

func decideCacheAware(mask []bool, stats []invokerSnapshot, invocation *Invocation) (int, int, int) {
	bestLevel := 3
	bestIdx := -1
	bestCacheIdx := noCacheIdx
	var bestLoad float64
	haveLoad := false

	for i, ok := range mask {
		if !ok {
			continue
		}
		s := stats[i]
		if len(s.cache) == 0 && s.jobNumber == 0 {
			return i, noCacheIdx, 3
		}
		cacheIdx, cacheLevel := GetCacheHit(s.cache, invocation)
		l := load(s)
		if cacheLevel < bestLevel || (cacheLevel == bestLevel && (!haveLoad || l < bestLoad)) {
			bestLevel = cacheLevel
			bestIdx = i
			bestCacheIdx = cacheIdx
			bestLoad = l
			haveLoad = true
		}
	}
	if bestIdx == -1 {
		panicInvariant("decideCacheAware: no masked invoker")
	}
	return bestIdx, bestCacheIdx, bestLevel
}

// NewController creates a Controller by name. Valid names: leastload,
// cacheaware. Panics on an unrecognized name.
func NewController(name string) Controller {
	switch name {
	case "leastload":
		return NewLeastLoadController()
	case "cacheaware":
		return NewCacheAwareController()
	default:
		panic(&ConfigError{Field: "controller", Value: name})
	}
}
