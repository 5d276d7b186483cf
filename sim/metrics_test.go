package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, 10.0, calculatePercentile(data, 100), 1e-9)
	assert.InDelta(t, 1.0, calculatePercentile(data, 0), 1e-9)
	assert.InDelta(t, 5.5, calculatePercentile(data, 50), 0.6)
}

func TestSummarizeSlowdowns_Empty(t *testing.T) {
	summary := SummarizeSlowdowns(nil)
	assert.Equal(t, SlowdownSummary{}, summary)
}

func TestSummarizeSlowdowns_AggregatesAcrossInvokers(t *testing.T) {
	ctx := NewSimulationContext(1)
	a := NewInvoker(ctx, "invoker_a", 4096, 1, "FIFO")
	b := NewInvoker(ctx, "invoker_b", 4096, 1, "FIFO")

	clock := NewVirtualClock()
	invA := makeInvocation(ctx, 10*time.Millisecond)
	invA.InvokeTime = 0
	a.AddNewJob(invA, clock, noCacheIdx)
	a.Run(invA.RemainTime() + 20*time.Millisecond)

	invB := makeInvocation(ctx, 20*time.Millisecond)
	invB.InvokeTime = 0
	b.AddNewJob(invB, clock, noCacheIdx)
	b.Run(invB.RemainTime() + 20*time.Millisecond)

	summary := SummarizeSlowdowns([]InvokerNode{a, b})
	assert.Equal(t, 2, summary.Size)
	assert.True(t, summary.Max >= summary.Mean)
}
