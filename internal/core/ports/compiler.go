package ports

import (
	"context"

	"go.trai.ch/depcache/internal/core/domain"
)

// Compiler turns module source into an artifact. It is only invoked on a cache miss.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	Compile(ctx context.Context, fileID, code string) (domain.Artifact, error)
}
