package fetcher

// Monitoring middleware for fetchers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/metrics"
)

var (
	fetchDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "fetcher",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of resource fetches, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{metrics.LabelSuccess})
	fetchBytes = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "fetcher",
		Name:      "fetched_bytes_total",
		Help:      "Total number of response body bytes fetched.",
	}, []string{})
	singleFlightRequests = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "fetcher",
		Name:      "singleflight_requests_total",
		Help:      "Number of single-flight fetch requests, by whether they joined an upstream request in flight.",
	}, []string{metrics.LabelShared})
)

type instrumentedFetcher struct {
	next asyncimage.Fetcher
}

// Instrument wraps next so that every fetch is recorded in Prometheus metrics.
func Instrument(next asyncimage.Fetcher) asyncimage.Fetcher {
	return &instrumentedFetcher{
		next: next,
	}
}

func (i *instrumentedFetcher) Fetch(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		fetchDuration.With(
			metrics.LabelSuccess, strconv.FormatBool(err == nil),
		).Observe(time.Since(begin).Seconds())
		fetchBytes.Add(float64(len(body)))
	}(time.Now())
	return i.next.Fetch(ctx, url)
}
