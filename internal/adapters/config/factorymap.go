package config

import (
	"context"
	"slices"

	"go.trai.ch/facto/internal/core/domain"
)

// FactoryMap serves the definitions declared in a manifest.
type FactoryMap struct {
	defs []domain.Definition
}

// NewFactoryMap creates a FactoryMap over project's definitions.
func NewFactoryMap(project *domain.Project) *FactoryMap {
	return &FactoryMap{defs: slices.Clone(project.Definitions)}
}

// Factories returns the declared definitions in manifest order.
func (m *FactoryMap) Factories(ctx context.Context) ([]domain.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.defs), nil
}
