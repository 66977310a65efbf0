package ports

import (
	"context"

	"go.trai.ch/lumos/internal/core/domain"
)

// Toolchain drives the external chain toolchain.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// FetchAccount writes the JSON snapshot of an account to req.Dest.
	FetchAccount(ctx context.Context, req domain.FetchRequest) error
	// FetchProgram writes the executable binary of a program to req.Dest.
	FetchProgram(ctx context.Context, req domain.FetchRequest) error
	// StartValidator runs the local validator until it exits.
	StartValidator(ctx context.Context, plan domain.ValidatorPlan) error
}
