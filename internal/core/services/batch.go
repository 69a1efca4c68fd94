package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Batch sizes and inter-batch delays used to throttle external calls.
const (
	ScrapeBatchSize  = 3
	ScrapeBatchDelay = 1000 * time.Millisecond
	QueryBatchSize   = 5
	QueryBatchDelay  = 500 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// batcher runs work items in fixed-size concurrent batches with a fixed
// pause between batches.
type batcher struct {
	size  int
	delay time.Duration
	sleep SleepFunc
}

func newBatcher(size int, delay time.Duration, sleep SleepFunc) batcher {
	if size <= 0 {
		size = 1
	}
	if sleep == nil {
		sleep = Sleep
	}
	return batcher{size: size, delay: delay, sleep: sleep}
}

// run calls fn for every index in [0, n). Items within a batch run
// concurrently; fn stores its own result by index. fn returns an error
// only for failures that must abort the whole run; per-item failures are
// recorded by fn itself.
func (b batcher) run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for start := 0; start < n; start += b.size {
		if start > 0 && b.delay > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				return err
			}
		}

		end := min(start+b.size, n)
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				return fn(gctx, i)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
