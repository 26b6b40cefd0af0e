package responsecache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/metrics"
)

var (
	cacheRequestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "cache",
		Name:      "request_duration_seconds",
		Help:      "Duration of response cache requests, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{metrics.LabelMethod, metrics.LabelSuccess})
	cacheHits = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Number of response cache lookups that found a response.",
	}, []string{})
	cacheMisses = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Number of response cache lookups that found nothing.",
	}, []string{})
)

type instrumentedCache struct {
	next asyncimage.ResponseCache
}

// Instrument wraps next so that every request is recorded in Prometheus metrics.
func Instrument(next asyncimage.ResponseCache) asyncimage.ResponseCache {
	return &instrumentedCache{
		next: next,
	}
}

func (i *instrumentedCache) Get(ctx context.Context, url string) (resp *asyncimage.Response, err error) {
	defer func(begin time.Time) {
		cacheRequestDuration.With(
			metrics.LabelMethod, "Get",
			metrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(begin).Seconds())
		if err == nil {
			if resp != nil {
				cacheHits.Add(1)
			} else {
				cacheMisses.Add(1)
			}
		}
	}(time.Now())
	return i.next.Get(ctx, url)
}

func (i *instrumentedCache) Set(ctx context.Context, resp *asyncimage.Response) (err error) {
	defer func(begin time.Time) {
		cacheRequestDuration.With(
			metrics.LabelMethod, "Set",
			metrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return i.next.Set(ctx, resp)
}
