// Package matrix classifies every cell of a finished QR Code bit-matrix into
// its functional role (finder, timing, alignment, format/version info, or
// data) without needing anything beyond the QR Code's version number — the
// same geometry nayuki-QR-Code-generator's drawFunctionPatterns uses to draw
// those patterns, here used in reverse to classify rather than draw.
package matrix

import "fmt"

// CellKind is the functional role of a single QR Code module. Exactly one
// kind applies per coordinate.
type CellKind uint8

const (
	// CellData is any module not otherwise classified: it carries payload
	// or error-correction bits and is free to be restyled.
	CellData CellKind = iota
	CellFinderOuter
	CellFinderInner
	CellSeparator
	CellTimingH
	CellTimingV
	CellAlignmentOuter
	CellAlignmentInner
	CellFormatInfo
	CellVersionInfo
)

// String names a CellKind for logs, errors, and CSS class derivation.
func (k CellKind) String() string {
	switch k {
	case CellFinderOuter:
		return "finder-outer"
	case CellFinderInner:
		return "finder-inner"
	case CellSeparator:
		return "separator"
	case CellTimingH:
		return "timing-h"
	case CellTimingV:
		return "timing-v"
	case CellAlignmentOuter:
		return "alignment-outer"
	case CellAlignmentInner:
		return "alignment-inner"
	case CellFormatInfo:
		return "format-info"
	case CellVersionInfo:
		return "version-info"
	default:
		return "data"
	}
}

// IsFunction reports whether this kind is a function-pattern cell (anything
// required for scanning, as opposed to a Data module).
func (k CellKind) IsFunction() bool {
	return k != CellData
}

// ECCLevel is the Reed-Solomon error correction capacity of a QR Code.
type ECCLevel uint8

const (
	ECCLow ECCLevel = iota
	ECCMedium
	ECCQuartile
	ECCHigh
)

func (e ECCLevel) String() string {
	switch e {
	case ECCLow:
		return "L"
	case ECCMedium:
		return "M"
	case ECCQuartile:
		return "Q"
	case ECCHigh:
		return "H"
	default:
		return "?"
	}
}

// Matrix is an immutable, classified QR Code bit-matrix.
type Matrix struct {
	N       int
	Version int
	ECC     ECCLevel
	dark    []bool
	kind    []CellKind
}

// Side returns N, the number of modules per side.
func (m *Matrix) Side() int { return m.N }

// Dark reports whether the module at (row, col) is a dark module. Out-of-
// bounds coordinates report false.
func (m *Matrix) Dark(row, col int) bool {
	if !m.inBounds(row, col) {
		return false
	}
	return m.dark[row*m.N+col]
}

// Kind returns the classified role of the module at (row, col).
func (m *Matrix) Kind(row, col int) CellKind {
	if !m.inBounds(row, col) {
		return CellData
	}
	return m.kind[row*m.N+col]
}

func (m *Matrix) inBounds(row, col int) bool {
	return row >= 0 && row < m.N && col >= 0 && col < m.N
}

// InvalidMatrixError reports that a supplied bit-matrix is inconsistent with
// the declared version (spec error kind InvalidMatrix).
type InvalidMatrixError struct {
	Version int
	Want    int
	Got     int
}

func (e *InvalidMatrixError) Error() string {
	return fmt.Sprintf("matrix: version %d requires %d cells, got %d", e.Version, e.Want, e.Got)
}

// SideForVersion computes N = 21 + 4*(version-1) for versions 1..40.
func SideForVersion(version int) int {
	return 21 + 4*(version-1)
}

// Classify builds a classified Matrix from a flat, row-major slice of dark
// bits. dark must have exactly SideForVersion(version)^2 elements.
func Classify(dark []bool, version int, ecc ECCLevel) (*Matrix, error) {
	if version < 1 || version > 40 {
		return nil, &InvalidMatrixError{Version: version, Want: -1, Got: len(dark)}
	}
	n := SideForVersion(version)
	if len(dark) != n*n {
		return nil, &InvalidMatrixError{Version: version, Want: n * n, Got: len(dark)}
	}

	m := &Matrix{
		N:       n,
		Version: version,
		ECC:     ecc,
		dark:    append([]bool(nil), dark...),
		kind:    make([]CellKind, n*n),
	}

	m.markTimingPatterns()
	m.markFinderPattern(0, 0)
	m.markFinderPattern(0, n-7)
	m.markFinderPattern(n-7, 0)
	m.markAlignmentPatterns()
	m.markFormatInfo()
	if version >= 7 {
		m.markVersionInfo()
	}

	return m, nil
}

func (m *Matrix) set(row, col int, kind CellKind) {
	if m.inBounds(row, col) {
		m.kind[row*m.N+col] = kind
	}
}

// markTimingPatterns lays the horizontal and vertical timing strips between
// the finder patterns, on row 6 and column 6 respectively.
func (m *Matrix) markTimingPatterns() {
	for i := 8; i <= m.N-9; i++ {
		m.set(6, i, CellTimingH)
		m.set(i, 6, CellTimingV)
	}
}

// markFinderPattern classifies the 7x7 finder block plus its 1-module
// separator, with top-left corner at (row, col). Coordinates may run
// slightly out of bounds near the matrix edges; out-of-bounds cells are
// silently ignored by set().
func (m *Matrix) markFinderPattern(row, col int) {
	for dr := -1; dr <= 7; dr++ {
		for dc := -1; dc <= 7; dc++ {
			r, c := row+dr, col+dc
			switch {
			case dr == -1 || dr == 7 || dc == -1 || dc == 7:
				m.set(r, c, CellSeparator)
			case dr == 0 || dr == 6 || dc == 0 || dc == 6:
				m.set(r, c, CellFinderOuter)
			case dr >= 2 && dr <= 4 && dc >= 2 && dc <= 4:
				m.set(r, c, CellFinderInner)
			default:
				m.set(r, c, CellFinderOuter)
			}
		}
	}
}

// markAlignmentPatterns classifies every 5x5 alignment block that doesn't
// overlap a finder pattern, using the same center-position table
// nayuki-QR-Code-generator's getAlignmentPatternPositions derives.
func (m *Matrix) markAlignmentPatterns() {
	centers := AlignmentCenters(m.Version)
	n := len(centers)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == 0 && j == 0 || i == 0 && j == n-1 || i == n-1 && j == 0 {
				continue // overlaps a finder pattern corner
			}
			m.markAlignmentPattern(centers[i], centers[j])
		}
	}
}

func (m *Matrix) markAlignmentPattern(row, col int) {
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			r, c := row+dr, col+dc
			if dr == 0 && dc == 0 {
				m.set(r, c, CellAlignmentInner)
			} else {
				m.set(r, c, CellAlignmentOuter)
			}
		}
	}
}

// markFormatInfo classifies the two 15-bit format-information copies: one
// wrapped around the top-left finder pattern, the other split between the
// bottom-left (column 8) and top-right (row 8) finders, plus the single
// always-dark module.
func (m *Matrix) markFormatInfo() {
	for i := 0; i < 6; i++ {
		m.set(8, i, CellFormatInfo)
	}
	m.set(8, 7, CellFormatInfo)
	m.set(8, 8, CellFormatInfo)
	m.set(7, 8, CellFormatInfo)
	for i := 9; i < 15; i++ {
		m.set(14-i, 8, CellFormatInfo)
	}

	for i := 0; i < 8; i++ {
		m.set(m.N-1-i, 8, CellFormatInfo)
	}
	for i := 8; i < 15; i++ {
		m.set(8, m.N-15+i, CellFormatInfo)
	}
	m.set(m.N-8, 8, CellFormatInfo) // the always-dark module
}

// markVersionInfo classifies the two 6x3 version-information blocks present
// from version 7 onward.
func (m *Matrix) markVersionInfo() {
	for i := 0; i < 18; i++ {
		a := m.N - 11 + i%3
		b := i / 3
		m.set(b, a, CellVersionInfo)
		m.set(a, b, CellVersionInfo)
	}
}

// AlignmentCenters returns the ascending list of alignment-pattern center
// coordinates (shared for both axes) for the given version, exactly as
// nayuki-QR-Code-generator's getAlignmentPatternPositions computes it.
// Version 1 has no alignment patterns.
func AlignmentCenters(version int) []int {
	if version == 1 {
		return nil
	}
	n := SideForVersion(version)
	numalign := version/7 + 2
	var step int
	if version == 32 {
		step = 26
	} else {
		step = (version*4+numalign*2+1)/(numalign*2-2)*2
	}
	result := make([]int, numalign)
	for i := 0; i < numalign-1; i++ {
		result[i] = n - 7 - i*step
	}
	result[numalign-1] = 6

	inverted := make([]int, numalign)
	for i, v := range result {
		inverted[numalign-1-i] = v
	}
	return inverted
}
