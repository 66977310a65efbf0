package netprobe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumos/internal/core/ports"
)

// NodeID is the unique identifier for the port prober Graft node.
const NodeID graft.ID = "adapter.port_prober"

func init() {
	graft.Register(graft.Node[ports.PortProber]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PortProber, error) {
			return New(), nil
		},
	})
}
