// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lumos/internal/adapters/cas"
	_ "go.trai.ch/lumos/internal/adapters/config"
	_ "go.trai.ch/lumos/internal/adapters/fs"
	_ "go.trai.ch/lumos/internal/adapters/logger"
	_ "go.trai.ch/lumos/internal/adapters/netprobe"
	_ "go.trai.ch/lumos/internal/adapters/shell"
	_ "go.trai.ch/lumos/internal/adapters/telemetry"
	_ "go.trai.ch/lumos/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/lumos/internal/app"
)
