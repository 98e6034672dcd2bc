// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/depcache/internal/adapters/config"
	_ "go.trai.ch/depcache/internal/adapters/logger"
	_ "go.trai.ch/depcache/internal/adapters/metrics"
	_ "go.trai.ch/depcache/internal/adapters/telemetry"
	_ "go.trai.ch/depcache/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/depcache/internal/app"
)
