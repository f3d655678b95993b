package radar

import (
	"context"
	"time"
)

// Run calls frame at fps until ctx is done or frame fails. Frames never
// overlap; one that overruns its slot delays the next start instead of
// being skipped.
func Run(ctx context.Context, fps int, frame func() error) error {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	timer := time.NewTimer(0)
	defer timer.Stop()

	next := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := frame(); err != nil {
			return err
		}
		next = next.Add(interval)
		wait := time.Until(next)
		if wait < 0 {
			next = time.Now()
			wait = 0
		}
		timer.Reset(wait)
	}
}
