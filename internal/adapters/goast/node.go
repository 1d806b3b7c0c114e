package goast

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facto/internal/core/ports"
)

// NodeID is the unique identifier for the source extractor Graft node.
const NodeID graft.ID = "adapter.goast"

func init() {
	graft.Register(graft.Node[ports.SourceExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceExtractor, error) {
			return NewExtractor(), nil
		},
	})
}
