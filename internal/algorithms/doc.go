// Package algorithms holds the retry backoff strategies used by the
// connection server when accepting connections fails temporarily.
package algorithms
