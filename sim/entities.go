package sim

import "time"

// Function is an immutable description of one function-as-a-service
// function. Grounded on _examples/original_source/simulated_concept.py's
// SimulatedFunction: three additive warm-up terms are sampled once at
// construction and never change afterward.
type Function struct {
	ID string

	// ExecTime is the ideal execution cost — the cost of running on an
	// already-warm, function-exact container (cache level 0).
	ExecTime time.Duration

	// ContainerInitTime, AppInitTime, FunInitTime are the three additive
	// cold-start terms: container_init_time is drawn uniformly
	// from [1000ms, 1500ms]; app_init_time and fun_init_time are each drawn
	// uniformly from [5%, 10%] of ExecTime (in whole milliseconds).
	ContainerInitTime time.Duration
	AppInitTime       time.Duration
	FunInitTime       time.Duration
}

// TotalCost is the cold-start (cache level 3) completion cost: ExecTime
// plus all three warm-up terms.
func (f *Function) TotalCost() time.Duration {
	return f.ExecTime + f.ContainerInitTime + f.AppInitTime + f.FunInitTime
}

// NewFunction constructs a Function with freshly sampled warm-up terms,
// drawn from ctx's function-timing RNG subsystem so that changing any other
// stochastic draw in the simulation never perturbs these values.
func NewFunction(ctx *SimulationContext, execTime time.Duration) *Function {
	if execTime <= 0 {
		panicInvariant("Function exec_time must be positive, got %s", execTime)
	}
	rng := ctx.RNG().ForSubsystem(SubsystemFunctionTiming)

	containerInit := time.Duration(1000+rng.Intn(501)) * time.Millisecond

	execMS := int(execTime / time.Millisecond)
	lo5 := execMS * 5 / 100
	hi10 := execMS * 10 / 100
	sampleFrac := func() time.Duration {
		if hi10 <= lo5 {
			return time.Duration(lo5) * time.Millisecond
		}
		return time.Duration(lo5+rng.Intn(hi10-lo5+1)) * time.Millisecond
	}

	return &Function{
		ID:                ctx.nextID(&ctx.nextFunctionID, "fun"),
		ExecTime:          execTime,
		ContainerInitTime: containerInit,
		AppInitTime:       sampleFrac(),
		FunInitTime:       sampleFrac(),
	}
}

// Application is an immutable owner of an ordered list of Functions, with a
// fixed memory footprint shared by every invocation of any of its functions.
type Application struct {
	ID        string
	Memory    int // MB
	Functions []*Function
}

// NewApplication constructs an empty Application with the given memory
// footprint. Functions are attached afterward via AddFunction.
func NewApplication(ctx *SimulationContext, memory int) *Application {
	if memory <= 0 {
		panicInvariant("Application memory must be positive, got %d", memory)
	}
	return &Application{
		ID:     ctx.nextID(&ctx.nextApplicationID, "app"),
		Memory: memory,
	}
}

// AddFunction appends fun to the application's function list.
func (a *Application) AddFunction(fun *Function) {
	a.Functions = append(a.Functions, fun)
}

// Invocation is a mutable, one-shot request to execute one Function that
// belongs to one Application.
type Invocation struct {
	ID  string
	Fun *Function
	App *Application

	InvokeTime time.Duration
	usedTime   time.Duration
	remainTime time.Duration
	finishTime time.Duration
	finished   bool
}

// NewInvocation creates an Invocation of fun within app. Panics if fun does
// not belong to app.
func NewInvocation(ctx *SimulationContext, fun *Function, app *Application) *Invocation {
	owned := false
	for _, f := range app.Functions {
		if f == fun {
			owned = true
			break
		}
	}
	if !owned {
		panicInvariant("invocation's function %s does not belong to application %s", fun.ID, app.ID)
	}
	return &Invocation{
		ID:         ctx.nextID(&ctx.nextInvocationID, "invocation"),
		Fun:        fun,
		App:        app,
		remainTime: fun.TotalCost(),
	}
}

// Memory is the invocation's memory footprint — its application's memory.
func (inv *Invocation) Memory() int {
	return inv.App.Memory
}

// UsedTime returns accumulated executed time.
func (inv *Invocation) UsedTime() time.Duration {
	return inv.usedTime
}

// RemainTime returns the remaining cost to completion.
func (inv *Invocation) RemainTime() time.Duration {
	return inv.remainTime
}

// Complete reports whether the invocation has finished.
func (inv *Invocation) Complete() bool {
	return inv.finished
}

// FinishTime returns the completion timestamp. Only meaningful if Complete().
func (inv *Invocation) FinishTime() time.Duration {
	return inv.finishTime
}

// SetRemainingCost overwrites the remaining cost to completion. Named for
// what it does rather than inheriting the original Python's misleading
// set_exec_time: the controller calls this at
// routing time with the *total cost to completion* for the chosen cache
// tier, not with the function's pure ExecTime.
func (inv *Invocation) SetRemainingCost(cost time.Duration) {
	if inv.finished {
		panicInvariant("SetRemainingCost called on completed invocation %s", inv.ID)
	}
	inv.remainTime = cost
}

// Slowdown returns the observed completion time divided by the function's
// ideal execution time. Only defined once Complete().
func (inv *Invocation) Slowdown() float64 {
	if !inv.finished {
		panicInvariant("Slowdown called on incomplete invocation %s", inv.ID)
	}
	return float64(inv.finishTime-inv.InvokeTime) / float64(inv.Fun.ExecTime)
}

// Run advances the invocation by up to timeSlice of clock's current virtual
// time, mirroring _examples/original_source/simulated_concept.py's
// Invocation.run: if the remaining cost fits within the slice, the
// invocation completes at clock.TimePoint()+remainTime; otherwise remainTime
// is debited by the full slice.
func (inv *Invocation) Run(timeSlice time.Duration, clock *VirtualClock) {
	if inv.finished {
		panicInvariant("Run called on completed invocation %s", inv.ID)
	}
	if inv.remainTime <= timeSlice {
		inv.finishTime = clock.TimePoint() + inv.remainTime
		inv.usedTime += inv.remainTime
		inv.remainTime = 0
		inv.finished = true
		return
	}
	inv.remainTime -= timeSlice
	inv.usedTime += timeSlice
}

// Container is a mutable, reusable execution environment bound to at most
// one Invocation at a time. Grounded on
// _examples/original_source/simulated_concept.py's Container.
type Container struct {
	ID         string
	Invocation *Invocation
	useCount   int
	reuseTime  time.Duration
	data       map[string]time.Duration
}

// NewContainer binds a fresh Container to invocation, timestamped at clock's
// current reading.
func NewContainer(ctx *SimulationContext, invocation *Invocation, clock *VirtualClock) *Container {
	return &Container{
		ID:         ctx.nextID(&ctx.nextContainerID, "container"),
		Invocation: invocation,
		useCount:   1,
		reuseTime:  clock.TimePoint(),
		data:       make(map[string]time.Duration),
	}
}

// LoadInvocation rebinds the container to a new invocation on reuse,
// incrementing UseCount and refreshing ReuseTime.
func (c *Container) LoadInvocation(invocation *Invocation, clock *VirtualClock) {
	c.Invocation = invocation
	c.useCount++
	c.reuseTime = clock.TimePoint()
}

// UseCount returns how many invocations this container has served,
// including the current one.
func (c *Container) UseCount() int {
	return c.useCount
}

// ReuseTime returns the timestamp of the container's last (re)load.
func (c *Container) ReuseTime() time.Duration {
	return c.reuseTime
}

// SetData stores policy metadata on the container (e.g. GDSF's clock
// snapshot).
func (c *Container) SetData(key string, value time.Duration) {
	c.data[key] = value
}

// GetData retrieves policy metadata previously stored with SetData.
func (c *Container) GetData(key string) time.Duration {
	return c.data[key]
}

// FunID proxies the current invocation's function id.
func (c *Container) FunID() string {
	return c.Invocation.Fun.ID
}

// AppID proxies the current invocation's application id.
func (c *Container) AppID() string {
	return c.Invocation.App.ID
}

// Memory proxies the current invocation's application memory.
func (c *Container) Memory() int {
	return c.Invocation.App.Memory
}
