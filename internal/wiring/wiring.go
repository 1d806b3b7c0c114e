// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/facto/internal/adapters/config"
	_ "go.trai.ch/facto/internal/adapters/fs"
	_ "go.trai.ch/facto/internal/adapters/goast"
	_ "go.trai.ch/facto/internal/adapters/interp"
	_ "go.trai.ch/facto/internal/adapters/logger"
	_ "go.trai.ch/facto/internal/adapters/symbols"
	_ "go.trai.ch/facto/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/facto/internal/app"
	_ "go.trai.ch/facto/internal/engine/cachestore"
)
