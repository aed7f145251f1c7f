package pool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuture_ResolvesAfterJob(t *testing.T) {
	runStrategyTest(t, 2, func(t *testing.T, p *Pool) {
		ran := false
		f, err := p.SubmitFuture(func() {
			time.Sleep(10 * time.Millisecond)
			ran = true
		})
		if err != nil {
			t.Fatalf("SubmitFuture failed: %v", err)
		}

		if err := f.Wait(context.Background()); err != nil {
			t.Fatalf("expected clean run, got %v", err)
		}
		if !ran {
			t.Error("Wait returned before the job ran")
		}
		if !f.IsReady() {
			t.Error("future should be ready after Wait")
		}
	})
}

func TestFuture_ReportsPanic(t *testing.T) {
	runStrategyTest(t, 1, func(t *testing.T, p *Pool) {
		cause := errors.New("disk on fire")
		f, err := p.SubmitFuture(func() { panic(cause) })
		if err != nil {
			t.Fatalf("SubmitFuture failed: %v", err)
		}

		<-f.Done()
		err = f.Err()

		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *PanicError, got %T: %v", err, err)
		}
		if pe.WorkerID != 0 {
			t.Errorf("expected worker 0, got %d", pe.WorkerID)
		}
		if !errors.Is(err, cause) {
			t.Error("PanicError should unwrap to the panic value")
		}
		if len(pe.Stack) == 0 {
			t.Error("expected a stack trace")
		}
	})
}

func TestFuture_WaitHonoursContext(t *testing.T) {
	p, err := New(1, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	release := make(chan struct{})
	f, _ := p.SubmitFuture(func() { <-release })

	if f.Err() != nil {
		t.Error("pending future should report no error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if f.IsReady() {
		t.Error("future should not be ready while the job is blocked")
	}

	close(release)
	if err := f.Wait(context.Background()); err != nil {
		t.Errorf("expected clean completion, got %v", err)
	}
}

func TestPanicError_NonErrorValue(t *testing.T) {
	pe := newPanicError(3, 7, "plain string")
	if pe.Unwrap() != nil {
		t.Error("non-error panic value should not unwrap")
	}
	want := "job 7 panicked on worker 3: plain string"
	if pe.Error() != want {
		t.Errorf("expected %q, got %q", want, pe.Error())
	}
}
