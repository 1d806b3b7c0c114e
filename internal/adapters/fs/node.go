package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facto/internal/core/ports"
)

// NodeID is the unique identifier for the artifact storage Graft node.
const NodeID graft.ID = "adapter.fs.storage"

func init() {
	graft.Register(graft.Node[ports.ArtifactStorage]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArtifactStorage, error) {
			return NewStorage(), nil
		},
	})
}
