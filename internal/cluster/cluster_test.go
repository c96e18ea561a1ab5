package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/cluster"
	"github.com/systmms/qrstyle/internal/matrix"
)

func TestFindTwoSeparateDots(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true
	dark[15*n+15] = true

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	clusters, err := cluster.Find(m, cluster.Conn4, true)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, 1, clusters[0].Count)
	assert.True(t, clusters[0].IsRectangular)
	assert.Equal(t, 10, clusters[0].MinRow)
	assert.Equal(t, 15, clusters[1].MinRow)
}

func TestFindMergesOrthogonalRun(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true
	dark[10*n+11] = true
	dark[10*n+12] = true

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	clusters, err := cluster.Find(m, cluster.Conn4, true)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].Count)
	assert.InDelta(t, 3.0, clusters[0].AspectRatio, 1e-9)
	assert.True(t, clusters[0].IsRectangular)
}

func TestFindConn8MergesDiagonalOnly(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[10*n+10] = true
	dark[11*n+11] = true

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	conn4Clusters, err := cluster.Find(m, cluster.Conn4, true)
	require.NoError(t, err)
	assert.Len(t, conn4Clusters, 2)

	conn8Clusters, err := cluster.Find(m, cluster.Conn8, true)
	require.NoError(t, err)
	require.Len(t, conn8Clusters, 1)
	assert.Equal(t, 2, conn8Clusters[0].Count)
	assert.False(t, conn8Clusters[0].IsRectangular)
}

func TestFindDataOnlyExcludesFunctionCells(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[0*n+0] = true // finder-outer cell
	dark[3*n+3] = true // finder-inner cell

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	clusters, err := cluster.Find(m, cluster.Conn8, true)
	require.NoError(t, err)
	assert.Empty(t, clusters)

	all, err := cluster.Find(m, cluster.Conn8, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindDeterministicRowMajorOrder(t *testing.T) {
	n := matrix.SideForVersion(1)
	dark := make([]bool, n*n)
	dark[15*n+15] = true
	dark[9*n+9] = true
	dark[9*n+12] = true

	m, err := matrix.Classify(dark, 1, matrix.ECCLow)
	require.NoError(t, err)

	clusters, err := cluster.Find(m, cluster.Conn4, true)
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	assert.Equal(t, 9, clusters[0].MinRow)
	assert.Equal(t, 9, clusters[0].MinCol)
	assert.Equal(t, 9, clusters[1].MinRow)
	assert.Equal(t, 12, clusters[1].MinCol)
	assert.Equal(t, 15, clusters[2].MinRow)
}
