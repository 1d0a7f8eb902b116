package report

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/skybi/session-report/internal/task"
)

// Progress keeps track of the amount of users whose sessions were already looked up
type Progress struct {
	total atomic.Int64
	done  atomic.Int64
}

func (progress *Progress) begin(total int) {
	if progress == nil {
		return
	}
	progress.total.Store(int64(total))
	progress.done.Store(0)
}

func (progress *Progress) advance() {
	if progress == nil {
		return
	}
	progress.done.Add(1)
}

// Snapshot returns the amount of processed users and the total amount of users
func (progress *Progress) Snapshot() (processed, total int64) {
	return progress.done.Load(), progress.total.Load()
}

// Track logs the progress in the given interval until the returned function is called.
// The stop function logs the final state once more. A non-positive interval disables tracking.
func (progress *Progress) Track(interval time.Duration, logger zerolog.Logger) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	reporter := task.NewRepeating(func() {
		processed, total := progress.Snapshot()
		logger.Info().Int64("processed", processed).Int64("total", total).Msg("looking up sessions...")
	}, interval)
	reporter.Start()
	return func() {
		reporter.Stop(true)
	}
}
