package camera

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Submitter is the detection call the loop drives.
type Submitter interface {
	Submit(ctx context.Context, frame Frame) error
}

// Loop runs the sequential capture-detect cycle: one detection in flight at
// a time. When a sample comes due while a call is still outstanding, the
// sample is skipped rather than queued (latest-value semantics; detection
// latency, not capture rate, is the bottleneck).
type Loop struct {
	Source   FrameSource
	Submit   Submitter
	Interval time.Duration
	Logger   *slog.Logger

	busy    atomic.Bool
	Skipped atomic.Uint64
}

// Run blocks until ctx is cancelled. Per-frame failures are logged and the
// loop continues.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !l.busy.CompareAndSwap(false, true) {
				l.Skipped.Add(1)
				l.Logger.Debug("detection still outstanding, skipping sample")
				continue
			}
			go func() {
				defer l.busy.Store(false)
				frame, err := l.Source.Next(ctx)
				if err != nil {
					if ctx.Err() == nil {
						l.Logger.Error("frame capture failed", slog.String("error", err.Error()))
					}
					return
				}
				if err := l.Submit.Submit(ctx, frame); err != nil {
					if ctx.Err() == nil {
						l.Logger.Error("detection failed, frame skipped", slog.String("error", err.Error()))
					}
				}
			}()
		}
	}
}
