package ports

import (
	"context"

	"go.trai.ch/facto/internal/core/domain"
)

// FactoryMap produces the current, uncompiled factory definitions.
//
//go:generate mockgen -source=factories.go -destination=mocks/mock_factories.go -package=mocks
type FactoryMap interface {
	// Factories returns every definition in registration order.
	Factories(ctx context.Context) ([]domain.Definition, error)
}

// SourceExtractor recovers the literal source of a closure.
type SourceExtractor interface {
	// Extract returns the closure source, its captured names and the imports it uses.
	// Failures wrap domain.ErrExtractionFailed.
	Extract(closure domain.Closure) (domain.Extraction, error)
}

// Compiler turns factory definitions into compiled fragments.
type Compiler interface {
	// CompileAll returns one fragment per definition, in definition order, or
	// a *domain.NotCompilableError naming the first offending id.
	CompileAll(ctx context.Context, defs []domain.Definition) ([]domain.Fragment, error)
}
