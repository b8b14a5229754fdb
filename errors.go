package tdb

import "go.trai.ch/zerr"

// Sentinel errors, one per taxonomy kind in the error handling design.
// Wrap with zerr.Wrap before adding per-failure metadata with zerr.With,
// and with traced() to attach the build trace; compare with errors.Is
// against these values.
var (
	// ErrConfiguration is raised when a rule specifies both an inline
	// build callable and a command vector.
	ErrConfiguration = zerr.New("rule specifies both an inline build function and a command vector")

	// ErrMissingTarget is raised when a target has no rule and no
	// existing filesystem artifact.
	ErrMissingTarget = zerr.New("target has no rule and no existing artifact")

	// ErrCommandRewrite is raised for an unknown tdb: directive, or a
	// tdb:prereq directive when the target has no prerequisites.
	ErrCommandRewrite = zerr.New("unknown command argument directive")

	// ErrCommandExecution is raised when an external command cannot be
	// spawned or exits with a non-zero status.
	ErrCommandExecution = zerr.New("command execution failed")

	// ErrArtifactShape is raised when post-build verification finds the
	// artifact missing or of the wrong type for the target's declared Type.
	ErrArtifactShape = zerr.New("build artifact does not match declared target type")

	// ErrCycle is raised when a target's own build, transitively, depends
	// on itself. Detection is via the active call stack (the build trace);
	// see DESIGN.md for the Open Question this resolves.
	ErrCycle = zerr.New("cycle detected in target dependency graph")
)
