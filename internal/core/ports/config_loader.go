package ports

import "go.trai.ch/depcache/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path.
	Load(path string) (*domain.Config, error)

	// Discover walks up from cwd and returns the path of the nearest depcache.yaml.
	Discover(cwd string) (string, error)
}
