// Package cluster groups connected dark QR modules into islands. The flood
// fill is adapted from katalvlaran-lvlath/gridgraph's ConnectedComponents:
// a precomputed neighbor-offset table keyed by connectivity, a visited
// bitmap sized to the grid, and a slice-backed BFS queue, generalized from
// "same integer value" land cells to "dark" QR modules.
package cluster

import (
	"errors"

	"github.com/systmms/qrstyle/internal/matrix"
)

// Connectivity selects 4-way (orthogonal) or 8-way (orthogonal + diagonal)
// adjacency for clustering, mirroring gridgraph.Connectivity.
type Connectivity int

const (
	Conn4 Connectivity = iota
	Conn8
)

var offsets4 = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var offsets8 = [][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// ErrInconsistentCluster reports that the flood fill's own bookkeeping
// invariant (every dark cell assigned to exactly one cluster) failed. This
// should be unreachable; it exists so a broken future edit fails loudly
// instead of silently producing overlapping clusters.
var ErrInconsistentCluster = errors.New("cluster: dark-cell partition is inconsistent")

// Cell is one module belonging to a Cluster.
type Cell struct {
	Row, Col int
}

// Cluster is a connected set of dark modules under some Connectivity.
type Cluster struct {
	Cells                  []Cell
	MinRow, MinCol         int
	MaxRow, MaxCol         int
	Count                  int
	Density                float64
	AspectRatio            float64
	IsRectangular          bool
	FunctionOnly           bool // every cell in this cluster is a function-pattern cell
}

// Find partitions the dark modules of m into Clusters under the given
// connectivity. When dataOnly is true, only CellData modules participate
// (function-pattern modules are skipped entirely, as when safe_mode
// prevents merging decorative shapes across finder/timing/alignment
// geometry); when false, all dark modules participate regardless of kind.
//
// Clusters are returned in row-major order of each cluster's first
// (top-left-most, row-major scan order) cell, making emission reproducible.
func Find(m *matrix.Matrix, conn Connectivity, dataOnly bool) ([]Cluster, error) {
	n := m.Side()
	visited := make([]bool, n*n)
	offsets := offsets4
	if conn == Conn8 {
		offsets = offsets8
	}

	var clusters []Cluster
	seen := 0
	total := 0

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if !m.Dark(r, c) {
				continue
			}
			total++
			if dataOnly && m.Kind(r, c) != matrix.CellData {
				continue
			}
			idx := r*n + c
			if visited[idx] {
				continue
			}

			queue := []Cell{{r, c}}
			visited[idx] = true
			cl := Cluster{
				MinRow: r, MaxRow: r,
				MinCol: c, MaxCol: c,
				FunctionOnly: true,
			}

			for qi := 0; qi < len(queue); qi++ {
				cur := queue[qi]
				cl.Cells = append(cl.Cells, cur)
				seen++
				if m.Kind(cur.Row, cur.Col) == matrix.CellData {
					cl.FunctionOnly = false
				}
				if cur.Row < cl.MinRow {
					cl.MinRow = cur.Row
				}
				if cur.Row > cl.MaxRow {
					cl.MaxRow = cur.Row
				}
				if cur.Col < cl.MinCol {
					cl.MinCol = cur.Col
				}
				if cur.Col > cl.MaxCol {
					cl.MaxCol = cur.Col
				}

				for _, d := range offsets {
					nr, nc := cur.Row+d[0], cur.Col+d[1]
					if nr < 0 || nr >= n || nc < 0 || nc >= n {
						continue
					}
					if !m.Dark(nr, nc) {
						continue
					}
					if dataOnly && m.Kind(nr, nc) != matrix.CellData {
						continue
					}
					nidx := nr*n + nc
					if !visited[nidx] {
						visited[nidx] = true
						queue = append(queue, Cell{nr, nc})
					}
				}
			}

			cl.finalize()
			clusters = append(clusters, cl)
		}
	}

	if dataOnly {
		// Only a best-effort check applies: function-pattern cells were
		// skipped on purpose, so seen <= total, never equal in general.
	} else if seen != total {
		return nil, ErrInconsistentCluster
	}

	return clusters, nil
}

func (cl *Cluster) finalize() {
	cl.Count = len(cl.Cells)
	w := cl.MaxCol - cl.MinCol + 1
	h := cl.MaxRow - cl.MinRow + 1
	bboxArea := w * h
	if bboxArea > 0 {
		cl.Density = float64(cl.Count) / float64(bboxArea)
	}
	if h > 0 {
		cl.AspectRatio = float64(w) / float64(h)
	}
	cl.IsRectangular = cl.Count == bboxArea
}
