// Package app wires the demo binary's shared adapters into a small
// Components bundle via graft; see node.go for the dependency
// registration.
package app

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tdbtool/tdb"
	"github.com/tdbtool/tdb/internal/adapters/cas"
)

// Components bundles the adapters cmd/tdb needs to construct a
// tdb.Coordinator: a logger, a tracer provider, and the optional mtime
// ledger. The Coordinator itself is built in cmd/tdb, since it also needs
// the concrete rule set the demo binary declares.
type Components struct {
	Logger   tdb.Logger
	Provider *sdktrace.TracerProvider
	Ledger   *cas.Store
}

// New bundles the adapters into a Components value.
func New(logger tdb.Logger, provider *sdktrace.TracerProvider, ledger *cas.Store) *Components {
	return &Components{Logger: logger, Provider: provider, Ledger: ledger}
}
