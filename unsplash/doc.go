// Package unsplash is a minimal client for the Unsplash photo search API.
//
// It covers a single endpoint, GET /search/photos, authenticated with a static
// access key. Results are not paginated: Search returns the first page only.
package unsplash
