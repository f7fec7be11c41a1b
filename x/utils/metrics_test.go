package utils

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "distributor/distribute"}}

	_, err = m.Deliver(ctx, db, tx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &weavetest.Handler{DeliverErr: errors.ErrThreshold})
	assert.True(t, errors.ErrThreshold.Is(err))
	_, err = m.Check(ctx, db, tx, &weavetest.Handler{})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := make(map[string]float64)
	var observations uint64
	for _, f := range families {
		switch f.GetName() {
		case "sharepool_tx_processed_total":
			for _, metric := range f.GetMetric() {
				key := ""
				for _, l := range metric.GetLabel() {
					key += l.GetName() + "=" + l.GetValue() + " "
				}
				counts[key] = metric.GetCounter().GetValue()
			}
		case "sharepool_tx_duration_seconds":
			for _, metric := range f.GetMetric() {
				observations += metric.GetHistogram().GetSampleCount()
			}
		}
	}

	assert.Equal(t, map[string]float64{
		"code=0 path=distributor/distribute phase=deliver ":  1,
		"code=21 path=distributor/distribute phase=deliver ": 1,
		"code=0 path=distributor/distribute phase=check ":    1,
	}, counts)
	assert.Equal(t, uint64(3), observations)

	// Collectors cannot be registered twice.
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
