// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/tdbtool/tdb/internal/adapters/cas"
	_ "github.com/tdbtool/tdb/internal/adapters/logger"
	_ "github.com/tdbtool/tdb/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/tdbtool/tdb/internal/app"
)
