package dnc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs independent sequences concurrently, each through its own
// fresh State. Steps within a sequence stay strictly sequential; only whole
// sequences fan out, since no per-sequence state is shared. At most workers
// sequences run at once (0 means one worker per sequence). The first error
// cancels the remaining sequences.
func (m *Memory) RunBatch(ctx context.Context, seqs [][][]float64, workers int) ([][][]float64, error) {
	out := make([][][]float64, len(seqs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, seq := range seqs {
		i, seq := i, seq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := m.Run(seq)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
