package cachestore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facto/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/adapters/goast"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/adapters/interp"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/adapters/symbols"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/facto/internal/engine/compiler"
)

// NodeID is the unique identifier for the cache store provider Graft node.
const NodeID graft.ID = "engine.cachestore"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			symbols.NodeID,
			interp.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			goast.NodeID,
		},
		Run: func(ctx context.Context) (*Provider, error) {
			storage, err := graft.Dep[ports.ArtifactStorage](ctx)
			if err != nil {
				return nil, err
			}

			table, err := graft.Dep[ports.SymbolTable](ctx)
			if err != nil {
				return nil, err
			}

			evaluator, err := graft.Dep[ports.Evaluator](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.SourceExtractor](ctx)
			if err != nil {
				return nil, err
			}

			newCompiler := func() ports.Compiler {
				return compiler.New(extractor)
			}

			return NewProvider(storage, table, evaluator, log, tracer, newCompiler), nil
		},
	})
}
