package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(BorrowingTransitions.WithLabelValues("antri", "dipinjam"))
	RecordTransition("antri", "dipinjam")
	after := testutil.ToFloat64(BorrowingTransitions.WithLabelValues("antri", "dipinjam"))
	assert.Equal(t, before+1, after)
}

func TestRecordCache(t *testing.T) {
	hit := CacheRequests.WithLabelValues("test", "hit")
	miss := CacheRequests.WithLabelValues("test", "miss")
	failed := CacheRequests.WithLabelValues("test", "error")

	h, m, e := testutil.ToFloat64(hit), testutil.ToFloat64(miss), testutil.ToFloat64(failed)

	RecordCache("test", true, nil)
	RecordCache("test", false, nil)
	RecordCache("test", true, errors.New("down"))

	assert.Equal(t, h+1, testutil.ToFloat64(hit))
	assert.Equal(t, m+1, testutil.ToFloat64(miss))
	assert.Equal(t, e+1, testutil.ToFloat64(failed))
}
