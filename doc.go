// Package tdb implements a target-driven build engine: given a set of named
// build targets and the rules for producing them, it decides which targets
// are out of date relative to their prerequisites, invokes the builder for
// each stale target, and does so with maximum parallelism consistent with
// the declared dependency graph.
//
// Targets generally correspond to filesystem artifacts (files or
// directories) whose freshness is tracked by modification timestamps. A
// target may also be declared phony, meaning it never corresponds to a
// stored artifact and is always considered stale.
//
// The package is organized as a single flat library surface rather than
// split across internal/core/domain, internal/core/ports and
// internal/engine the way a typical application in this codebase's style
// would be, because this package is meant to be imported by other Go
// programs that declare their own rules (the build coordinator, its rule
// registry and its CLI argument contract are all part of the public API).
// internal/ is reserved for adapters supporting the demo binary in cmd/tdb.
package tdb
