package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_DepthQuota(t *testing.T) {
	g := newGuard(2)

	require.NoError(t, g.enter())
	require.NoError(t, g.enter())
	err := g.enter()

	require.Error(t, err)
	assert.True(t, IsDepthError(err))
}

func TestGuard_LeaveUnwindsDepth(t *testing.T) {
	g := newGuard(1)

	require.NoError(t, g.enter())
	g.leave()
	// Sequential siblings at the same depth each fit within the quota.
	require.NoError(t, g.enter())
}

func TestGuard_CycleOnActiveLabel(t *testing.T) {
	g := newGuard(10)

	require.NoError(t, g.enterGroup("a"))
	require.NoError(t, g.enterGroup("b"))
	err := g.enterGroup("a")

	require.Error(t, err)
	assert.True(t, IsCycleError(err))
}

func TestGuard_LeaveGroupAllowsReentry(t *testing.T) {
	g := newGuard(10)

	require.NoError(t, g.enterGroup("a"))
	g.leaveGroup("a")
	require.NoError(t, g.enterGroup("a"))
}
