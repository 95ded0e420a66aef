package capture

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/adapters/host"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/core/ports"
)

// NodeID is the unique identifier for the capture controller Graft node.
const NodeID graft.ID = "engine.capture"

func init() {
	graft.Register(graft.Node[*Controller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			host.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Controller, error) {
			executor, err := graft.Dep[ports.Host](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewController(executor, log, tel), nil
		},
	})
}
