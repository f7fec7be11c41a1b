package payout

import (
	"github.com/iov-one/sharepool/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the keeper state to prometheus.
type Metrics struct {
	rounds    *prometheus.CounterVec
	vault     prometheus.Gauge
	threshold prometheus.Gauge
	holders   prometheus.Gauge
	lastRound prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharepool",
			Subsystem: "payout",
			Name:      "rounds_total",
			Help:      "Distribution rounds attempted, by final status.",
		}, []string{"status"}),
		vault: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sharepool",
			Subsystem: "payout",
			Name:      "vault_balance",
			Help:      "Last observed vault balance.",
		}),
		threshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sharepool",
			Subsystem: "payout",
			Name:      "vault_threshold",
			Help:      "Vault balance required for a distribution.",
		}),
		holders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sharepool",
			Subsystem: "payout",
			Name:      "holders",
			Help:      "Number of holders in the last round.",
		}),
		lastRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sharepool",
			Subsystem: "payout",
			Name:      "last_round_timestamp_seconds",
			Help:      "Start time of the last round.",
		}),
	}
	for _, c := range []prometheus.Collector{m.rounds, m.vault, m.threshold, m.holders, m.lastRound} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register collector")
		}
	}
	return m, nil
}

func (m *Metrics) observeVault(balance, threshold uint64) {
	if m == nil {
		return
	}
	m.vault.Set(float64(balance))
	m.threshold.Set(float64(threshold))
}

func (m *Metrics) observeRound(r *Round) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(r.Status).Inc()
	m.holders.Set(float64(r.Holders))
	m.lastRound.Set(float64(r.Started.Unix()))
}
