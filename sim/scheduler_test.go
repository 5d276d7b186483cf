package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// makeInvocation builds a single-function application and one invocation of
// it, with remain_time left at the function's total cold-start cost.
func makeInvocation(ctx *SimulationContext, execTime time.Duration) *Invocation {
	app := NewApplication(ctx, 512)
	fun := NewFunction(ctx, execTime)
	app.AddFunction(fun)
	return NewInvocation(ctx, fun, app)
}

// TestFIFOScheduler_SingleCore_TwoInvocations checks that two invocations
// (each of its own separately sampled 100ms function) on a single core run
// back-to-back, each paying its full cold-start cost, so the second
// invocation completes at the sum of both cold-start costs.
func TestFIFOScheduler_SingleCore_TwoInvocations(t *testing.T) {
	ctx := NewSimulationContext(1)
	inv1 := makeInvocation(ctx, 100*time.Millisecond)
	inv2 := makeInvocation(ctx, 100*time.Millisecond)
	inv1.InvokeTime = 0
	inv2.InvokeTime = 0

	clock := NewVirtualClock()
	c1 := NewContainer(ctx, inv1, clock)
	c2 := NewContainer(ctx, inv2, clock)

	sched := NewFIFOScheduler(1)
	sched.AddJob(c1)
	sched.AddJob(c2)

	total1 := inv1.RemainTime()
	total2 := inv2.RemainTime()

	var completed []*Container
	for sched.HasJob() {
		completed = append(completed, sched.Tick(10*time.Millisecond, clock)...)
	}

	assert.Len(t, completed, 2)
	assert.Equal(t, total1, inv1.FinishTime())
	assert.Equal(t, total1+total2, inv2.FinishTime())
	assert.True(t, inv2.FinishTime() > inv1.FinishTime())
}

// TestLASandSRTF_CompletionOrderMatches checks that, with remaining times
// {100ms, 900ms} on one core, both schedulers complete
// the shorter job first even though LAS interleaves 10ms slices between the
// two instead of running the shorter one to exhaustion.
func TestLASandSRTF_CompletionOrderMatches(t *testing.T) {
	ctx := NewSimulationContext(1)

	runScheduler := func(newSched func(cores int) Scheduler) []*Container {
		short := makeInvocation(ctx, 100*time.Millisecond)
		short.SetRemainingCost(100 * time.Millisecond)
		long := makeInvocation(ctx, 900*time.Millisecond)
		long.SetRemainingCost(900 * time.Millisecond)

		clock := NewVirtualClock()
		cShort := NewContainer(ctx, short, clock)
		cLong := NewContainer(ctx, long, clock)

		sched := newSched(1)
		sched.AddJob(cShort)
		sched.AddJob(cLong)

		var completed []*Container
		for sched.HasJob() {
			completed = append(completed, sched.Tick(10*time.Millisecond, clock)...)
		}
		return completed
	}

	srtfOrder := runScheduler(func(cores int) Scheduler { return NewSRTFScheduler(cores) })
	lasOrder := runScheduler(func(cores int) Scheduler { return NewLASScheduler(cores) })

	assert.Len(t, srtfOrder, 2)
	assert.Len(t, lasOrder, 2)
	assert.Equal(t, srtfOrder[0].Invocation.Fun.ExecTime, lasOrder[0].Invocation.Fun.ExecTime)
	assert.Equal(t, 100*time.Millisecond, srtfOrder[0].Invocation.Fun.ExecTime)
}

func TestRunBatch_PanicsOnCompletedContainer(t *testing.T) {
	ctx := NewSimulationContext(1)
	inv := makeInvocation(ctx, 10*time.Millisecond)
	clock := NewVirtualClock()
	c := NewContainer(ctx, inv, clock)
	inv.Run(inv.RemainTime(), clock)
	assert.True(t, inv.Complete())

	assert.Panics(t, func() { runBatch([]*Container{c}, 10*time.Millisecond, clock) })
}

func TestNewScheduler_UnknownNamePanics(t *testing.T) {
	ctx := NewSimulationContext(1)
	assert.Panics(t, func() { NewScheduler(ctx, "bogus", 1) })
}
