package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func testRun(success bool) *domain.RebuildRun {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	run := &domain.RebuildRun{
		ID:        "0f8e7d6c-aaaa-bbbb-cccc-111122223333",
		Tenant:    domain.ShopTenant(4),
		Reason:    domain.ReasonManual,
		StartedAt: start,
		EndedAt:   start.Add(1500 * time.Millisecond),
		Success:   success,
		Documents: 3,
		Vectors:   5,
	}
	if !success {
		run.Error = "embedding unavailable"
	}
	return run
}

func TestRefreshCmd_Success(t *testing.T) {
	refresh := &mockRefreshService{run: testRun(true)}

	out, err := runCommand(t, newTestApp(&Services{Refresh: refresh}), "", "refresh", "shop-4")

	require.NoError(t, err)
	assert.Contains(t, out, "Rebuilt shop-4: 3 documents, 5 vectors in 1.5s")
	assert.Equal(t, []domain.TenantID{domain.ShopTenant(4)}, refresh.triggered)
}

func TestRefreshCmd_Failure(t *testing.T) {
	runErr := errors.New("embedding unavailable")
	refresh := &mockRefreshService{run: testRun(false), err: runErr}

	out, err := runCommand(t, newTestApp(&Services{Refresh: refresh}), "", "refresh", "4")

	require.Error(t, err)
	assert.ErrorIs(t, err, runErr)
	assert.Contains(t, out, "Rebuild of shop-4 failed after 1.5s: embedding unavailable")
}

func TestRefreshCmd_Async(t *testing.T) {
	refresh := &mockRefreshService{ack: domain.TriggerStarted}

	out, err := runCommand(t, newTestApp(&Services{Refresh: refresh}), "", "refresh", "catalog", "--async")

	require.NoError(t, err)
	assert.Contains(t, out, "Refresh catalog: started")
	assert.True(t, refresh.waited)
}

func TestRefreshCmd_Stopped(t *testing.T) {
	refresh := &mockRefreshService{err: domain.ErrRefresherStopped}

	_, err := runCommand(t, newTestApp(&Services{Refresh: refresh}), "", "refresh", "catalog")

	assert.ErrorIs(t, err, domain.ErrRefresherStopped)
}

func TestRefreshCmd_NoRefreshService(t *testing.T) {
	_, err := runCommand(t, newTestApp(&Services{}), "", "refresh", "catalog")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh service not configured")
}
