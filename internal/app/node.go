package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/adapters/render" //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/adapters/split"  //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/adapters/store"  //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/capture"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			split.NodeID,
			capture.NodeID,
			store.NodeID,
			render.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			splitter, err := graft.Dep[ports.Splitter](ctx)
			if err != nil {
				return nil, err
			}
			controller, err := graft.Dep[*capture.Controller](ctx)
			if err != nil {
				return nil, err
			}
			cacheStore, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}

			return New(config.NewLoader(log), splitter, controller, cacheStore, log, renderer), nil
		},
	})
}
