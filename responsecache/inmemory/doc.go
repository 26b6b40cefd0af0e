// Package inmemory provides an in-process implementation of asyncimage.ResponseCache.
//
// Responses are spread across buckets by an FNV hash of their URL so that lookups of
// different images rarely contend on the same lock. Bodies are copied on the way in and
// on the way out, so callers may keep or modify the slices they pass and receive.
//
// Nothing is ever evicted; expired responses are only hidden from Get.
package inmemory
