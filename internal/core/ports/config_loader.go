package ports

import "go.trai.ch/gate/internal/core/domain"

// ConfigLoader defines the interface for loading the workflow configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory and
	// returns the workflow with its job graph.
	Load(cwd string) (*domain.Workflow, error)

	// DiscoverRoot walks up from cwd to find the workspace root.
	// Returns the directory containing gate.yaml.
	DiscoverRoot(cwd string) (string, error)
}
