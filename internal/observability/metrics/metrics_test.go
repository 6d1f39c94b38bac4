package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPoolState(t *testing.T) {
	RecordPoolState(3, "STK", sdkmath.NewUint(4500), sdkmath.NewUint(12), 2)

	assert.InDelta(t, 4500, testutil.ToFloat64(poolTotalStakedGauge.WithLabelValues("3", "STK")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(poolAccRewardPerShareGauge.WithLabelValues("3")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(poolPositionsGauge.WithLabelValues("3")), 0)
}

func TestRecordPollerDuration(t *testing.T) {
	failing := RecordPollerDuration("test", func(ctx context.Context) error {
		return errors.New("boom")
	})
	assert.Error(t, failing(t.Context()))

	before := testutil.CollectAndCount(pollerDurationHistogram)
	ok := RecordPollerDuration("test-ok", func(ctx context.Context) error { return nil })
	assert.NoError(t, ok(t.Context()))
	assert.Equal(t, before+1, testutil.CollectAndCount(pollerDurationHistogram))

	assert.Positive(t, testutil.ToFloat64(pollerLastSuccessGauge.WithLabelValues("test-ok")))
	assert.Zero(t, testutil.ToFloat64(pollerLastSuccessGauge.WithLabelValues("test")))
}

func TestRecordOperationDuration(t *testing.T) {
	RecordOperationDuration(time.Millisecond, "deposit", false)
	RecordOperationDuration(time.Millisecond, "deposit", true)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(operationDuration), 2)
}
