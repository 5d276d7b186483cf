package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualClock_Advance(t *testing.T) {
	c := NewVirtualClock()
	c.Advance(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.TimePoint())
	assert.Equal(t, 0, c.ElapsedMinutes())

	c.Advance(55 * time.Second)
	assert.Equal(t, 1, c.ElapsedMinutes())
}

func TestVirtualClock_Advance_NegativePanics(t *testing.T) {
	c := NewVirtualClock()
	assert.Panics(t, func() { c.Advance(-time.Second) })
}

func TestVirtualClock_SyncFrom(t *testing.T) {
	global := NewVirtualClock()
	global.Advance(10 * time.Second)

	local := NewVirtualClock()
	local.SyncFrom(global)
	assert.Equal(t, global.TimePoint(), local.TimePoint())
}

func TestVirtualClock_SyncFrom_LocalAheadPanics(t *testing.T) {
	global := NewVirtualClock()
	local := NewVirtualClock()
	local.Advance(time.Second)
	assert.Panics(t, func() { local.SyncFrom(global) })
}
