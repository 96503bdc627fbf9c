package mock

import (
	"context"

	"github.com/fwojciec/questlog"
)

// Compile-time interface verification.
var _ questlog.StoryGenerator = (*StoryGenerator)(nil)

// StoryGenerator is a mock implementation of questlog.StoryGenerator.
type StoryGenerator struct {
	GenerateFn func(ctx context.Context, req questlog.GenerateRequest) (*questlog.Story, error)
}

func (g *StoryGenerator) Generate(ctx context.Context, req questlog.GenerateRequest) (*questlog.Story, error) {
	return g.GenerateFn(ctx, req)
}
