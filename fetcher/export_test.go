package fetcher

// Waiters returns the number of callers waiting on the upstream request for url.
func (f *SingleFlightFetcher) Waiters(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waitlists[url])
}
