package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time, labeled by message path and result code.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ sharepool.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharepool",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Total transactions processed, by message path, phase and ABCI code.",
		}, []string{"path", "phase", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sharepool",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction processing time, by message path and phase.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"path", "phase"}),
	}
	for _, c := range []prometheus.Collector{m.total, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register collector")
		}
	}
	return m, nil
}

func (m *Metrics) observe(tx sharepool.Tx, phase string, start time.Time, err error) {
	path := sharepool.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.total.WithLabelValues(path, phase, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Checker) (*sharepool.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

func (m *Metrics) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Deliverer) (*sharepool.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}
