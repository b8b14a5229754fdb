package tdb

import "math"

// NegInf represents "never built / absent" in a BuildResult's mtime.
// PosInf represents "phony success" (always newer than anything).
var (
	NegInf = math.Inf(-1)
	PosInf = math.Inf(1)
)

// Result is the single output of any successful build.
type Result struct {
	// Mtime is a finite Unix millisecond timestamp, NegInf, or PosInf.
	Mtime float64
}
