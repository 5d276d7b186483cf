package workload

import (
	"time"

	"github.com/faas-sim/faas-sim/sim"
)

// Generator produces the invocation burst for one scaled minute-of-day.
// Grounded on _examples/original_source/dataset/azure_workload.py's
// AzureWorkload.
type Generator interface {
	GenerateInvocations(minuteOfDay int) []*sim.Invocation
}

// AzureWorkload synthesizes a fixed population of applications and functions
// once at construction (__sample_azure_application /
// __sample_azure_function), then regenerates a fresh invocation list for
// every call to GenerateInvocations, rescaled against the observed
// per-function invocation-rate curve.
type AzureWorkload struct {
	ctx             *sim.SimulationContext
	applications    []*sim.Application
	invocationLimit int
}

// NewAzureWorkload samples cfg.ApplicationNumber applications (each drawing
// its memory footprint from DefaultMemorySampler and 1-5 functions from a
// shared function pool, each drawing its exec_time from
// DefaultExecTimeSampler), using ctx's workload RNG subsystem.
func NewAzureWorkload(ctx *sim.SimulationContext, cfg Config) *AzureWorkload {
	if cfg.ApplicationNumber <= 0 {
		panic(&sim.ConfigError{Field: "application_number", Value: "must be positive"})
	}
	rng := ctx.RNG().ForSubsystem(sim.SubsystemWorkload)

	pool := make([]*sim.Function, 5*cfg.ApplicationNumber)
	for i := range pool {
		execMS := DefaultExecTimeSampler.Sample(rng)
		pool[i] = sim.NewFunction(ctx, time.Duration(execMS)*time.Millisecond)
	}

	apps := make([]*sim.Application, 0, cfg.ApplicationNumber)
	for range cfg.ApplicationNumber {
		memory := DefaultMemorySampler.Sample(rng)
		app := sim.NewApplication(ctx, int(memory))
		numFuncs := 1 + rng.Intn(5)
		for range numFuncs {
			if len(pool) == 0 {
				break
			}
			app.AddFunction(pool[0])
			pool = pool[1:]
		}
		apps = append(apps, app)
	}

	return &AzureWorkload{
		ctx:             ctx,
		applications:    apps,
		invocationLimit: cfg.ApplicationInvocationLimit,
	}
}

// funcRate pairs a (function, application) with its expected invocation
// count at the requested minute.
type funcRate struct {
	fun   *sim.Function
	app   *sim.Application
	count int
}

// GenerateInvocations builds one minute's invocation list: every registered
// function's expected count (from the shared rate curve) is rescaled so the
// total matches invocationLimit, then every invocation is materialized and
// the whole list is shuffled. A minute where every function's rescaled count
// rounds to zero returns an empty slice rather than the panic the original
// raises.
func (w *AzureWorkload) GenerateInvocations(minuteOfDay int) []*sim.Invocation {
	rng := w.ctx.RNG().ForSubsystem(sim.SubsystemWorkload)

	var rates []funcRate
	total := 0
	for _, app := range w.applications {
		for _, fun := range app.Functions {
			count := RateAt(minuteOfDay)
			rates = append(rates, funcRate{fun: fun, app: app, count: count})
			total += count
		}
	}
	if total == 0 {
		return nil
	}

	var invocations []*sim.Invocation
	for _, fr := range rates {
		n := int(float64(fr.count)*float64(w.invocationLimit)/float64(total) + 0.5)
		for range n {
			invocations = append(invocations, sim.NewInvocation(w.ctx, fr.fun, fr.app))
		}
	}

	rng.Shuffle(len(invocations), func(i, j int) {
		invocations[i], invocations[j] = invocations[j], invocations[i]
	})
	return invocations
}
