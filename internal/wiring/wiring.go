// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/memo/internal/adapters/config"
	_ "go.trai.ch/memo/internal/adapters/host"
	_ "go.trai.ch/memo/internal/adapters/logger"
	_ "go.trai.ch/memo/internal/adapters/render"
	_ "go.trai.ch/memo/internal/adapters/split"
	_ "go.trai.ch/memo/internal/adapters/store"
	_ "go.trai.ch/memo/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/memo/internal/app"
	_ "go.trai.ch/memo/internal/engine/capture"
)
