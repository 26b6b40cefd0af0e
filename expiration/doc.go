// Package expiration provides policies that decide when a cached response is stale.
//
// The inmemory response cache consults a Policy on every lookup, so switching policies
// changes freshness without touching the stored expiration times.
package expiration
