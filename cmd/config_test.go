package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFileConfig_ParsesKnownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
scheduler: LAS
controller: cacheaware
invokers: 8
invoker_memory_mb: 8192
invoker_cores: 4
simulation_minutes: 30
seed: 99
workload:
  application_number: 10
  application_invocation_limit: 500
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := loadFileConfig(path)
	assert.Equal(t, "LAS", cfg.Scheduler)
	assert.Equal(t, "cacheaware", cfg.Controller)
	assert.Equal(t, 8, cfg.Invokers)
	assert.Equal(t, 8192, cfg.InvokerMemoryMB)
	assert.Equal(t, 4, cfg.InvokerCores)
	assert.Equal(t, 30, cfg.SimulationMinutes)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 10, cfg.Workload.ApplicationNumber)
	assert.Equal(t, 500, cfg.Workload.ApplicationInvocationLimit)
}
