package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/topology"
)

func TestAnalyzeIsolatedCell(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true // a lone dark data cell, no neighbors dark

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	topo := topology.Analyze(m)
	nb := topo.At(10, 10)
	assert.True(t, nb.Isolated)
	assert.Equal(t, topology.DirNone, nb.Flow)
	assert.Zero(t, nb.Degree)
}

func TestFlowDirectionPrefersCardinal(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true
	dark[9*n+10] = true  // north neighbor
	dark[9*n+11] = true  // NE neighbor too

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	topo := topology.Analyze(m)
	nb := topo.At(10, 10)
	assert.False(t, nb.Isolated)
	assert.Equal(t, topology.DirN, nb.Flow)
	assert.EqualValues(t, 1, nb.Cardinal)
	assert.EqualValues(t, 2, nb.Degree)
}

func TestFlowDirectionDiagonalFallback(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true
	dark[9*n+11] = true // NE only

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	topo := topology.Analyze(m)
	nb := topo.At(10, 10)
	assert.Equal(t, topology.DirNE, nb.Flow)
	assert.Zero(t, nb.Cardinal)
}

func TestAtOutOfBoundsIsZeroValue(t *testing.T) {
	n := matrix.SideForVersion(1)
	m, err := matrix.Classify(make([]bool, n*n), 1, matrix.ECCLow)
	require.NoError(t, err)
	topo := topology.Analyze(m)
	assert.Equal(t, topology.Neighborhood{}, topo.At(-1, 0))
	assert.Equal(t, topology.Neighborhood{}, topo.At(0, n))
}
