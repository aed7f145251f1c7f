package server

import (
	"bytes"
	"fmt"
	"io"
)

const (
	StatusOK          = "HTTP/1.1 200 OK"
	StatusNotFound    = "HTTP/1.1 404 NOT FOUND"
	StatusUnavailable = "HTTP/1.1 503 SERVICE UNAVAILABLE"
)

const (
	// notFoundBody is sent when the configured 404 page cannot be read.
	notFoundBody    = "404 Not Found"
	unavailableBody = "503 Service Unavailable"
)

type response struct {
	status string
	body   []byte
}

func (r response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(len(r.status) + len(r.body) + 64)

	fmt.Fprintf(&buf, "%s\r\nContent-Length: %d\r\nConnection: close\r\n\r\n", r.status, len(r.body))
	buf.Write(r.body)

	return buf.WriteTo(w)
}
