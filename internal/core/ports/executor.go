package ports

import (
	"context"
	"io"

	"go.trai.ch/lumos/internal/core/domain"
)

// Executor runs subprocesses.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd and blocks until it exits.
	//
	// Each non-nil writer receives the matching stream line by line from its own relay goroutine.
	// A nil stdout discards the stream. Relays are not joined, so trailing lines may arrive
	// after Execute returns.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
