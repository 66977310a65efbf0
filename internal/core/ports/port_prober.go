package ports

// PortProber checks local TCP port availability.
//
//go:generate go run go.uber.org/mock/mockgen -source=port_prober.go -destination=mocks/mock_port_prober.go -package=mocks
type PortProber interface {
	// Available binds and immediately releases port. The answer may be stale by the time it is used.
	Available(port int) bool
}
