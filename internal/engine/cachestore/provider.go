package cachestore

import (
	"go.trai.ch/facto/internal/core/ports"
)

// Provider holds the collaborators shared by every Store and opens stores for
// individual artifact paths.
type Provider struct {
	storage     ports.ArtifactStorage
	symbols     ports.SymbolTable
	evaluator   ports.Evaluator
	logger      ports.Logger
	tracer      ports.Tracer
	newCompiler func() ports.Compiler
}

// NewProvider creates a Provider. newCompiler is called at most once per Store,
// on the first compilation.
func NewProvider(
	storage ports.ArtifactStorage,
	symbols ports.SymbolTable,
	evaluator ports.Evaluator,
	logger ports.Logger,
	tracer ports.Tracer,
	newCompiler func() ports.Compiler,
) *Provider {
	return &Provider{
		storage:     storage,
		symbols:     symbols,
		evaluator:   evaluator,
		logger:      logger,
		tracer:      tracer,
		newCompiler: newCompiler,
	}
}

// Open returns a Store for cfg.
func (p *Provider) Open(cfg Config) *Store {
	return &Store{
		cfg:         cfg,
		storage:     p.storage,
		symbols:     p.symbols,
		evaluator:   p.evaluator,
		logger:      p.logger,
		tracer:      p.tracer,
		newCompiler: p.newCompiler,
	}
}

// Symbols returns the symbol table stores resolve named handles with.
func (p *Provider) Symbols() ports.SymbolTable { return p.symbols }

// Evaluator returns the evaluator stores resolve source handles with.
func (p *Provider) Evaluator() ports.Evaluator { return p.evaluator }

// Storage returns the artifact storage.
func (p *Provider) Storage() ports.ArtifactStorage { return p.storage }
