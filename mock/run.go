package mock

import (
	"context"

	"github.com/fwojciec/mhracrawl"
)

var _ mhracrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of mhracrawl.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *mhracrawl.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*mhracrawl.Run, error)
	FindRunsFn    func(ctx context.Context, filter mhracrawl.RunFilter) ([]*mhracrawl.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *mhracrawl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*mhracrawl.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter mhracrawl.RunFilter) ([]*mhracrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
