package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	maxHeaderLines = 100
	maxHeaderBytes = 64 << 10
)

var (
	ErrEmptyRequest     = errors.New("empty request")
	ErrMalformedRequest = errors.New("malformed request line")
	ErrHeaderTooLarge   = errors.New("request header too large")
)

// Request is the part of a request the server looks at.
type Request struct {
	Method string
	Target string

	// Header holds the raw lines after the request line.
	Header []string
}

// ReadRequest reads lines until the first blank one. A stream that ends
// before the blank line is accepted as long as it carried a request line.
// The header as a whole may not exceed maxHeaderBytes.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	var lines []string
	budget := maxHeaderBytes

	for {
		line, err := readLine(r, &budget)
		if errors.Is(err, ErrHeaderTooLarge) {
			return nil, err
		}

		if line == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}

		lines = append(lines, line)
		if len(lines) > maxHeaderLines {
			return nil, ErrHeaderTooLarge
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	if len(lines) == 0 {
		return nil, ErrEmptyRequest
	}

	parts := strings.Split(lines[0], " ")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, lines[0])
	}

	return &Request{
		Method: parts[0],
		Target: parts[1],
		Header: lines[1:],
	}, nil
}

// readLine reads one line without its terminator, charging every byte
// against budget. It never buffers more than the remaining budget.
func readLine(r *bufio.Reader, budget *int) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		*budget -= len(frag)
		if *budget < 0 {
			return "", ErrHeaderTooLarge
		}
		buf = append(buf, frag...)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return strings.TrimRight(string(buf), "\r\n"), err
	}
}
