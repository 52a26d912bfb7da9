package pagestore

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented wraps a Store and counts page traffic with Prometheus metrics.
type Instrumented struct {
	store  Store
	pages  *prometheus.CounterVec
	bytes  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewInstrumented wraps store. If reg is non-nil, the collectors are registered
// with it under the given namespace.
func NewInstrumented(store Store, reg prometheus.Registerer, namespace string) (*Instrumented, error) {
	in := &Instrumented{
		store: store,
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagestore",
			Name:      "pages_total",
			Help:      "Number of page transfers by operation.",
		}, []string{"op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagestore",
			Name:      "bytes_total",
			Help:      "Number of bytes transferred by operation.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagestore",
			Name:      "errors_total",
			Help:      "Number of failed page transfers by operation.",
		}, []string{"op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{in.pages, in.bytes, in.errors} {
			if err := reg.Register(c); err != nil {
				return nil, errors.Wrap(err, "pagestore: register metrics")
			}
		}
	}
	return in, nil
}

// ReadPage implements Store.
func (in *Instrumented) ReadPage(addr Addr, p []byte) error {
	return in.observe("read", len(p), in.store.ReadPage(addr, p))
}

// WritePage implements Store.
func (in *Instrumented) WritePage(addr Addr, p []byte) error {
	return in.observe("write", len(p), in.store.WritePage(addr, p))
}

func (in *Instrumented) observe(op string, n int, err error) error {
	if err != nil {
		in.errors.WithLabelValues(op).Inc()
		return err
	}
	in.pages.WithLabelValues(op).Inc()
	in.bytes.WithLabelValues(op).Add(float64(n))
	return nil
}

// Pages returns the page counter for op ("read" or "write").
func (in *Instrumented) Pages(op string) prometheus.Counter {
	return in.pages.WithLabelValues(op)
}

// Bytes returns the byte counter for op ("read" or "write").
func (in *Instrumented) Bytes(op string) prometheus.Counter {
	return in.bytes.WithLabelValues(op)
}

// Errors returns the error counter for op ("read" or "write").
func (in *Instrumented) Errors(op string) prometheus.Counter {
	return in.errors.WithLabelValues(op)
}
