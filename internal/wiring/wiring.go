// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gate/internal/adapters/cas"
	_ "go.trai.ch/gate/internal/adapters/config"
	_ "go.trai.ch/gate/internal/adapters/fs"
	_ "go.trai.ch/gate/internal/adapters/history"
	_ "go.trai.ch/gate/internal/adapters/logger"
	_ "go.trai.ch/gate/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/gate/internal/app"
)
