package metrics

import "github.com/prometheus/client_golang/prometheus"

// instruments mirrors a Count into Prometheus. A nil *instruments records nothing.
type instruments struct {
	records *prometheus.CounterVec
	buckets *prometheus.GaugeVec
}

func newInstruments(reg prometheus.Registerer) *instruments {
	i := &instruments{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ringdeque",
			Name:      "records_total",
			Help:      "Total value recorded per key",
		}, []string{"key"}),
		buckets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ringdeque",
			Name:      "series_buckets",
			Help:      "Number of one-second buckets retained per key",
		}, []string{"key"}),
	}
	reg.MustRegister(i.records, i.buckets)
	return i
}

func (i *instruments) observe(key string, value int, buckets int) {
	if i == nil {
		return
	}
	if value > 0 {
		i.records.WithLabelValues(key).Add(float64(value))
	}
	i.buckets.WithLabelValues(key).Set(float64(buckets))
}

func (i *instruments) forget(key string) {
	if i == nil {
		return
	}
	i.buckets.DeleteLabelValues(key)
}
