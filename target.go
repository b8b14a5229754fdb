package tdb

import "unique"

// Name identifies a target. When the target's declared Type is TypeFile,
// TypeDirectory, or TypeAuto, Name also doubles as a filesystem path.
//
// Name interns its string value so that equality is a pointer comparison
// and repeated names (the common case in a dependency graph with shared
// prerequisites) share storage.
type Name struct {
	h unique.Handle[string]
}

// NewName interns s and returns the corresponding Name.
func NewName(s string) Name {
	return Name{h: unique.Make(s)}
}

// String returns the underlying string value.
func (n Name) String() string {
	var zero unique.Handle[string]
	if n.h == zero {
		return ""
	}
	return n.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	n.h = unique.Make(string(text))
	return nil
}

// Type classifies what a target is and how its freshness is checked.
type Type string

const (
	// TypeAuto is the default: no post-build verification, and the mtime is
	// simply read if the path happens to exist.
	TypeAuto Type = "auto"
	// TypeFile requires the artifact to be a regular file after a build;
	// its default failure policy is to delete the partial artifact.
	TypeFile Type = "file"
	// TypeDirectory requires the artifact to be a directory after a build;
	// the engine refreshes its mtime on success.
	TypeDirectory Type = "directory"
	// TypePhony never corresponds to a filesystem artifact. It is always
	// considered stale and its post-success mtime is +∞.
	TypePhony Type = "phony"
)

func (t Type) orDefault() Type {
	if t == "" {
		return TypeAuto
	}
	return t
}
