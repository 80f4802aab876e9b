package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for answer requests.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeAPI       = "api"
	OutcomeMalformed = "malformed"
)

// Recorder tracks answer requests. A nil *Recorder records nothing.
type Recorder struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewRecorder registers the chatnow collectors on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatnow",
			Name:      "answer_requests_total",
			Help:      "Answer requests by backend and outcome.",
		}, []string{"backend", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatnow",
			Name:      "answer_request_duration_seconds",
			Help:      "Wall time of answer requests.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"backend"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chatnow",
			Name:      "answer_requests_in_flight",
			Help:      "Answer requests currently outstanding.",
		}),
	}

	for _, c := range []prometheus.Collector{r.requests, r.latency, r.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Start marks a request as outstanding and returns a func that records its outcome.
func (r *Recorder) Start(backend string) func(outcome string) {
	if r == nil {
		return func(string) {}
	}
	begin := time.Now()
	r.inFlight.Inc()
	return func(outcome string) {
		r.inFlight.Dec()
		r.requests.WithLabelValues(backend, outcome).Inc()
		r.latency.WithLabelValues(backend).Observe(time.Since(begin).Seconds())
	}
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
