// Package netprobe checks local TCP port availability.
package netprobe

import (
	"net"
	"strconv"

	"go.trai.ch/lumos/internal/core/ports"
)

var _ ports.PortProber = (*Prober)(nil)

// DefaultHost is the wildcard address the validator binds its services to.
const DefaultHost = "0.0.0.0"

// Prober implements ports.PortProber with a bind-and-release check.
type Prober struct {
	host string
}

// New creates a Prober binding on DefaultHost.
func New() *Prober {
	return &Prober{host: DefaultHost}
}

// NewWithHost creates a Prober binding on host.
func NewWithHost(host string) *Prober {
	return &Prober{host: host}
}

// Available reports whether port could be bound just now. The listener is closed immediately,
// so another process may take the port before the caller uses it.
func (p *Prober) Available(port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort(p.host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
