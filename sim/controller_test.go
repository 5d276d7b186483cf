package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeastLoadController_RoutesToLowestLoad(t *testing.T) {
	ctx := NewSimulationContext(1)
	busy := NewInvoker(ctx, "invoker_busy", 4096, 2, "FIFO")
	idle := NewInvoker(ctx, "invoker_idle", 4096, 2, "FIFO")

	clock := NewVirtualClock()
	busyInv := makeInvocation(ctx, 500*time.Millisecond)
	busyInv.InvokeTime = 0
	busy.AddNewJob(busyInv, clock, noCacheIdx)

	ctrl := NewLeastLoadController()
	target := makeInvocation(ctx, 100*time.Millisecond)
	ctrl.QueueInvocation(target)

	ok := ctrl.RouteInvocation([]InvokerNode{busy, idle}, clock)
	assert.True(t, ok)
	assert.True(t, idle.HasJob())
	assert.False(t, ctrl.HasInvocation())
}

// TestCacheAwareController_PrefersIdleEmptyInvoker checks that an idle
// invoker with an empty cache wins over an invoker offering a level-0
// cache hit.
func TestCacheAwareController_PrefersIdleEmptyInvoker(t *testing.T) {
	ctx := NewSimulationContext(1)
	clock := NewVirtualClock()

	app := NewApplication(ctx, 512)
	fun := NewFunction(ctx, 50*time.Millisecond)
	app.AddFunction(fun)

	a := NewCacheInvoker(ctx, "invoker_a", 4096, 2, "FIFO", "LRU")

	b := NewCacheInvoker(ctx, "invoker_b", 4096, 2, "FIFO", "LRU")
	warmInv := NewInvocation(ctx, fun, app)
	warmInv.InvokeTime = 0
	b.AddNewJob(warmInv, clock, noCacheIdx)
	b.Run(warmInv.RemainTime() + 20*time.Millisecond)
	assert.NotEmpty(t, b.cache)

	ctrl := NewCacheAwareController()
	target := NewInvocation(ctx, fun, app)
	ctrl.QueueInvocation(target)

	ok := ctrl.RouteInvocation([]InvokerNode{a, b}, clock)
	assert.True(t, ok)
	assert.True(t, a.HasJob())
	assert.False(t, b.HasJob())
}

func TestController_RouteInvocation_NoInvocationReturnsFalse(t *testing.T) {
	ctrl := NewLeastLoadController()
	clock := NewVirtualClock()
	assert.False(t, ctrl.RouteInvocation(nil, clock))
}

func TestController_RouteInvocation_NoFittingInvokerLeavesQueueHead(t *testing.T) {
	ctx := NewSimulationContext(1)
	small := NewInvoker(ctx, "invoker_small", 128, 1, "FIFO")

	ctrl := NewLeastLoadController()
	big := makeInvocation(ctx, 10*time.Millisecond) // app memory 512 > invoker capacity 128
	ctrl.QueueInvocation(big)

	clock := NewVirtualClock()
	ok := ctrl.RouteInvocation([]InvokerNode{small}, clock)
	assert.False(t, ok)
	assert.True(t, ctrl.HasInvocation())
}

func TestNewController_UnknownNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewController("bogus") })
}
