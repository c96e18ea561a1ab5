// Package qrencode stands in for the external QR encoder spec.md §1 treats
// as an out-of-scope collaborator: the rendering pipeline consumes an
// already-encoded (bit-matrix, version, ecc) tuple, it never produces one.
// This package manufactures that tuple for this repository's own tests and
// for the RenderWithIntents/CLI convenience paths that accept raw text.
//
// It deliberately does not implement QR Code Model 2's segment packing,
// Reed-Solomon error correction, or mask-penalty scoring: none of that is
// exercised by anything downstream of matrix.Classify, which labels cells
// purely from their position for a given version and does not care whether
// the data bits are a real, decodable payload. So EncodeText derives a
// version from the input deterministically and fills the grid with a
// reproducible pseudo-random pattern instead of a compliant encoding.
package qrencode

import (
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
)

// Version is a QR Code Model 2 version number, 1 to 40 inclusive.
type Version uint8

// Value returns the underlying version number.
func (v Version) Value() uint8 {
	return uint8(v)
}

// QrCode is a placeholder symbol: a module grid sized correctly for its
// version, generated deterministically from its input text and ECC level.
type QrCode struct {
	version Version
	modules []bool // row-major, side*side
}

// EncodeText derives a version from len(text) and ecl, then fills an
// N-by-N grid of that version's side length with a pattern seeded from the
// text itself, so the same inputs always produce the same QrCode.
func EncodeText(text string, ecl qrcodeecc.QrCodeEcc) (*QrCode, error) {
	ver := versionFor(text, ecl)
	side := 4*int(ver) + 17
	modules := make([]bool, side*side)

	seed := fnvSeed(text) + uint64(ecl.Ordinal())
	state := seed
	for i := range modules {
		state = state*6364136223846793005 + 1442695040888963407 // LCG step
		modules[i] = (state>>33)&1 == 1
	}

	return &QrCode{version: ver, modules: modules}, nil
}

// versionFor picks a version roughly proportional to payload length, the
// same relationship a real encoder has between text size and version, so
// longer test payloads exercise larger grids without requiring one. Each
// version step holds a version-1 symbol's byte capacity at ecl (17/14/11/7
// bytes for L/M/Q/H), so higher ECC levels move to larger versions sooner.
func versionFor(text string, ecl qrcodeecc.QrCodeEcc) Version {
	perVersion := [4]int{17, 14, 11, 7}[ecl.Ordinal()]
	v := (len(text) + perVersion - 1) / perVersion
	if v < 1 {
		v = 1
	}
	if v > 40 {
		v = 40
	}
	return Version(v)
}

// Version returns the symbol's version.
func (q QrCode) Version() Version {
	return q.version
}

// DarkModules returns a row-major copy of the module grid, suitable for
// internal/matrix.Classify.
func (q QrCode) DarkModules() []bool {
	out := make([]bool, len(q.modules))
	copy(out, q.modules)
	return out
}

// fnvSeed hashes text with FNV-1a so EncodeText is deterministic without
// depending on map iteration order or any non-reproducible input.
func fnvSeed(text string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(text); i++ {
		h ^= uint64(text[i])
		h *= prime64
	}
	return h
}
