package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Call(func() error { return errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v, want errBoom", i, err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	called := false
	err := b.Call(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("err = %v, want ErrOpen", err)
	}
	if called {
		t.Error("fn invoked while open")
	}
}

func TestBreaker_RecoversAfterCooldown(t *testing.T) {
	b := New(1, time.Millisecond)

	b.Call(func() error { return errBoom })
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(5 * time.Millisecond)

	if err := b.Call(func() error { return nil }); err != nil {
		t.Fatalf("probe call err = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := New(1, time.Millisecond)

	b.Call(func() error { return errBoom })
	time.Sleep(5 * time.Millisecond)

	b.Call(func() error { return errBoom })
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open after failed probe", b.State())
	}
}

func TestBreaker_SuccessKeepsClosed(t *testing.T) {
	b := New(2, time.Minute)

	b.Call(func() error { return errBoom })
	b.Call(func() error { return nil })
	b.Call(func() error { return errBoom })
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (success resets failure count)", b.State())
	}

	b.Reset()
	if b.State() != StateClosed {
		t.Errorf("Reset() left state %v", b.State())
	}
}
