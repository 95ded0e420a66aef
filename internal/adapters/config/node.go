package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[domain.Options]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (domain.Options, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return domain.Options{}, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return domain.Options{}, zerr.Wrap(err, "failed to determine working directory")
			}
			return NewLoader(log).Load(cwd)
		},
	})
}
