package metrics

import (
	"context"
	"time"
)

// same shape as poller.PollFunc, kept as an alias so the wrapped function
// is assignable to it
type pollFunc = func(ctx context.Context) error

// RecordPollerDuration times every run of f under the given poller name and
// exports when it last succeeded.
func RecordPollerDuration(name string, f pollFunc) pollFunc {
	return func(ctx context.Context) error {
		start := time.Now()
		err := f(ctx)

		pollerDurationHistogram.
			WithLabelValues(name, outcome(err != nil).String()).
			Observe(time.Since(start).Seconds())
		if err == nil {
			pollerLastSuccessGauge.WithLabelValues(name).Set(float64(time.Now().Unix()))
		}
		return err
	}
}
