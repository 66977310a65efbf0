package ports

import "go.trai.ch/lumos/internal/core/domain"

// ConfigLoader defines the interface for loading the network model.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path.
	Load(path string) (*domain.Model, error)
}
