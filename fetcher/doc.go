// Package fetcher provides asyncimage.Fetcher implementations.
//
// HTTPFetcher performs the actual network requests. SingleFlightFetcher wraps
// another fetcher so that concurrent fetches of the same URL result in a single
// upstream request whose body is shared by every caller and stored in a
// response cache. Instrument adds Prometheus request metrics to any fetcher.
package fetcher
