// Package server accepts TCP connections and hands each one to a worker
// pool as a single job. Every connection carries one request, answered
// with a static file from the document root.
package server
