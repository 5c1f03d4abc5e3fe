package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed requests and measures how
// long they take. Requests are labeled by message path, stage (check or
// deliver) and the ABCI code of the result.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ vault.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vault",
		Name:      "requests_total",
		Help:      "Total number of processed requests.",
	}, []string{"path", "stage", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vault",
		Name:      "request_duration_seconds",
		Help:      "Duration of request processing in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "stage"})

	for _, c := range []prometheus.Collector{requests, duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrDuplicate, "cannot register collector: %s", err)
		}
	}
	return &Metrics{requests: requests, duration: duration}, nil
}

// Requests returns the counter of processed requests.
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}

// Check measures the dry run processing.
func (m *Metrics) Check(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

// Deliver measures the state changing processing.
func (m *Metrics) Deliver(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m *Metrics) observe(tx vault.Tx, stage string, start time.Time, err error) {
	path := vault.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.requests.WithLabelValues(path, stage, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path, stage).Observe(time.Since(start).Seconds())
}
