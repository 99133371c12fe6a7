package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	assert.True(t, config.Enabled)
	assert.True(t, config.IncludeCatalog)
	assert.Equal(t, 6*time.Hour, config.Interval)
}

func TestRebuildRun_Duration(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	run := RebuildRun{StartedAt: start}
	assert.Equal(t, time.Duration(0), run.Duration())

	run.EndedAt = start.Add(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, run.Duration())
}
