package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faas-sim/faas-sim/sim"
)

func TestNewAzureWorkload_PopulatesApplications(t *testing.T) {
	ctx := sim.NewSimulationContext(1)
	w := NewAzureWorkload(ctx, Config{ApplicationNumber: 5, ApplicationInvocationLimit: 100})

	assert.Len(t, w.applications, 5)
	for _, app := range w.applications {
		assert.NotEmpty(t, app.Functions)
	}
}

func TestAzureWorkload_GenerateInvocations_RescalesToLimit(t *testing.T) {
	ctx := sim.NewSimulationContext(1)
	w := NewAzureWorkload(ctx, Config{ApplicationNumber: 3, ApplicationInvocationLimit: 50})

	invocations := w.GenerateInvocations(480)
	assert.NotEmpty(t, invocations)
	// Rounding can land the total a few invocations away from the target.
	assert.InDelta(t, 50, len(invocations), 5)
}

func TestNewAzureWorkload_NonPositiveApplicationsPanics(t *testing.T) {
	ctx := sim.NewSimulationContext(1)
	assert.Panics(t, func() { NewAzureWorkload(ctx, Config{ApplicationNumber: 0}) })
}
