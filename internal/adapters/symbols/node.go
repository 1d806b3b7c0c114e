package symbols

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/facto/internal/core/ports"
)

// NodeID is the unique identifier for the symbol table Graft node.
const NodeID graft.ID = "adapter.symbols"

func init() {
	graft.Register(graft.Node[ports.SymbolTable]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SymbolTable, error) {
			return Default(), nil
		},
	})
}
