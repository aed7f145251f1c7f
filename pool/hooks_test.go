package pool

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/webpool/internal/logger"
)

func TestHooks_CalledAroundEveryJob(t *testing.T) {
	var before, after, failures atomic.Int32
	var panics []*PanicError
	var mu sync.Mutex

	p, err := New(3,
		WithLogger(quietLogger()),
		WithBeforeJob(func(int) { before.Add(1) }),
		WithAfterJob(func(_ int, err error) {
			after.Add(1)
			if err != nil {
				failures.Add(1)
			}
		}),
		WithOnPanic(func(pe *PanicError) {
			mu.Lock()
			panics = append(panics, pe)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 10 {
		_ = p.Submit(func() {
			if i == 4 {
				panic("job four")
			}
		})
	}
	_ = p.Close()

	if before.Load() != 10 || after.Load() != 10 {
		t.Errorf("expected 10 before/after calls, got %d/%d", before.Load(), after.Load())
	}
	if failures.Load() != 1 {
		t.Errorf("expected 1 failed job in after hook, got %d", failures.Load())
	}
	if len(panics) != 1 || panics[0].Value != "job four" {
		t.Errorf("expected one panic for job four, got %v", panics)
	}
}

func TestHooks_PanickingHookDoesNotKillWorker(t *testing.T) {
	var ran atomic.Int32
	p, err := New(1,
		WithLogger(quietLogger()),
		WithBeforeJob(func(int) { panic("bad hook") }),
	)
	if err != nil {
		t.Fatal(err)
	}

	for range 5 {
		_ = p.Submit(func() { ran.Add(1) })
	}
	_ = p.Close()

	if ran.Load() != 5 {
		t.Errorf("expected 5 jobs despite the hook panicking, got %d", ran.Load())
	}
}

func TestPanicIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	var mu sync.Mutex
	l := logger.New(&lockedWriter{mu: &mu, w: buf}, logger.LevelDebug)

	p, err := New(1, WithLogger(l))
	if err != nil {
		t.Fatal(err)
	}
	_ = p.Submit(func() { panic("logged failure") })
	_ = p.Close()

	mu.Lock()
	out := buf.String()
	mu.Unlock()

	for _, want := range []string{"[ERROR]", "logged failure", "stack trace", "started 1 workers"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (lw *lockedWriter) Write(b []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(b)
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	var typedNil *logger.Logger

	tests := []struct {
		name string
		l    Logger
	}{
		{"untyped nil", nil},
		{"typed nil", typedNil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createConfig(WithLogger(tt.l))
			if lg, ok := cfg.log.(*logger.Logger); !ok || lg == nil {
				t.Fatalf("expected the default logger, got %#v", cfg.log)
			}

			p, err := New(1, WithLogger(tt.l))
			if err != nil {
				t.Fatal(err)
			}
			f, err := p.SubmitFuture(func() {})
			if err != nil {
				t.Fatal(err)
			}
			<-f.Done()
			if err := p.Shutdown(5 * time.Second); err != nil {
				t.Errorf("shutdown: %v", err)
			}
		})
	}
}
