package split

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/core/ports"
)

const NodeID graft.ID = "adapter.split"

func init() {
	graft.Register(graft.Node[ports.Splitter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Splitter, error) {
			return New(), nil
		},
	})
}
