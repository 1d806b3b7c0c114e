package ports

import "go.trai.ch/facto/internal/core/domain"

// ConfigLoader loads the project manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest at path, or discovers facto.yaml by walking up
	// from cwd when path is empty.
	Load(cwd, path string) (*domain.Project, error)
}
