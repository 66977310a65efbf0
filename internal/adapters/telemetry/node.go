package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumos/internal/adapters/telemetry/progrock"
	"go.trai.ch/lumos/internal/core/ports"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{progrock.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			recorder, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}
			return NewTracing(recorder), nil
		},
	})
}
