package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/webpool/internal/algorithms"
	"github.com/utkarsh5026/webpool/internal/logger"
	"github.com/utkarsh5026/webpool/pool"
)

const (
	acceptInitialDelay = 5 * time.Millisecond
	acceptMaxDelay     = time.Second
	rejectWriteTimeout = 50 * time.Millisecond
)

// Submitter runs jobs. *pool.Pool satisfies it.
type Submitter interface {
	Submit(job pool.Job) error
}

// Config controls where the server listens and what it serves.
type Config struct {
	Addr     string
	Root     string
	Index    string
	NotFound string

	// ReadTimeout bounds reading the request and writing the reply.
	// Zero means no deadline.
	ReadTimeout time.Duration

	// AcceptBackoff picks the delay algorithm used after temporary
	// accept errors. AcceptJitter only applies to BackoffJittered.
	AcceptBackoff algorithms.BackoffType
	AcceptJitter  float64
}

// Server accepts connections and submits one job per connection.
type Server struct {
	cfg     Config
	jobs    Submitter
	log     *logger.Logger
	backoff algorithms.BackoffStrategy

	mu sync.Mutex
	ln net.Listener
}

// New returns a server that dispatches connections to jobs. A nil log uses
// the default logger.
func New(cfg Config, jobs Submitter, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default.With("server")
	}
	return &Server{
		cfg:     cfg,
		jobs:    jobs,
		log:     log,
		backoff: algorithms.NewBackoffStrategy(cfg.AcceptBackoff, acceptInitialDelay, acceptMaxDelay, cfg.AcceptJitter),
	}
}

// Addr returns the address being listened on, or nil before Serve starts.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe listens on the configured TCP address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or accepting fails
// permanently. It closes ln before returning and returns nil on a clean stop.
// Jobs already submitted keep running; draining them is up to the pool.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		_ = ln.Close()
		return nil
	})

	g.Go(func() error {
		defer close(stopped)
		return s.acceptLoop(ctx, ln)
	})

	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	attempt := 0

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if !isTemporary(err) {
				return fmt.Errorf("accept: %w", err)
			}

			delay := s.backoff.NextDelay(attempt)
			attempt++
			s.log.Warnf("accept error: %v; retrying in %v", err, delay)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		attempt = 0
		s.dispatch(conn)
	}
}

// dispatch wraps conn into a job. When the pool refuses it, the client gets
// a 503 right away.
func (s *Server) dispatch(conn net.Conn) {
	id := uuid.NewString()

	err := s.jobs.Submit(func() {
		s.handle(id, conn)
	})
	if err == nil {
		return
	}

	s.log.Warnf("conn %s: rejected: %v", id, err)
	_ = conn.SetWriteDeadline(time.Now().Add(rejectWriteTimeout))
	_, _ = response{status: StatusUnavailable, body: []byte(unavailableBody)}.WriteTo(conn)
	_ = conn.Close()
}

func (s *Server) handle(id string, conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	req, status, err := s.serveConn(conn)
	if err != nil {
		s.log.Errorf("conn %s: failed connection: %v", id, err)
		return
	}
	s.log.Debugf("conn %s: %s %s -> %q in %v", id, req.Method, req.Target, status, time.Since(start))
}

func (s *Server) serveConn(conn net.Conn) (*Request, string, error) {
	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	req, err := ReadRequest(bufio.NewReader(conn))
	if err != nil {
		return nil, "", fmt.Errorf("reading request: %w", err)
	}

	resp := s.route(req)
	if _, err := resp.WriteTo(conn); err != nil {
		return req, resp.status, fmt.Errorf("writing response: %w", err)
	}
	return req, resp.status, nil
}

// route maps a request to a file. Only GET is served; anything else gets
// the not-found page.
func (s *Server) route(req *Request) response {
	if req.Method != "GET" {
		return s.notFound()
	}

	name := req.Target
	if name == "/" {
		name = s.cfg.Index
	}

	body, err := readFile(s.cfg.Root, name)
	if err != nil {
		s.log.Debugf("%s: %v", req.Target, err)
		return s.notFound()
	}
	return response{status: StatusOK, body: body}
}

func (s *Server) notFound() response {
	body, err := readFile(s.cfg.Root, s.cfg.NotFound)
	if err != nil {
		body = []byte(notFoundBody)
	}
	return response{status: StatusNotFound, body: body}
}

func isTemporary(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
