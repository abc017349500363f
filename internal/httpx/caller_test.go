package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSleep records requested delays without waiting.
type fakeSleep struct {
	delays []time.Duration
}

func (f *fakeSleep) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

func newTestCaller(maxAttempts int) (*Caller, *fakeSleep) {
	c := New(Config{MaxAttempts: maxAttempts, AttemptTimeout: 5 * time.Second, BackoffBase: time.Second})
	fs := &fakeSleep{}
	c.sleep = fs.sleep
	return c, fs
}

func TestPostJSONSuccessFirstAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	caller, fs := newTestCaller(5)
	data, err := caller.PostJSON(context.Background(), srv.URL, map[string]string{"q": "hi"})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected body %q", data)
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly 1 request, got %d", hits.Load())
	}
	if len(fs.delays) != 0 {
		t.Errorf("no backoff expected on immediate success, got %v", fs.delays)
	}
}

func TestPostJSONRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	caller, fs := newTestCaller(5)
	data, err := caller.PostJSON(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected body %q", data)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", hits.Load())
	}
	if len(fs.delays) != 1 || fs.delays[0] != time.Second {
		t.Errorf("expected a single 1s backoff, got %v", fs.delays)
	}
}

func TestPostJSONExhaustsAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	caller, fs := newTestCaller(3)
	_, err := caller.PostJSON(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected last error to surface the status, got %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", hits.Load())
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(fs.delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, fs.delays)
	}
	for i := range want {
		if fs.delays[i] != want[i] {
			t.Errorf("delay %d: expected %v, got %v", i, want[i], fs.delays[i])
		}
	}
}

func TestPostJSONClientErrorsAreRetriedToo(t *testing.T) {
	// 4xx is retried the same as 5xx; callers asked for exhaustive
	// retry of every failure class.
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	caller, _ := newTestCaller(2)
	if _, err := caller.PostJSON(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 2 {
		t.Errorf("expected 400 to be retried, got %d attempts", hits.Load())
	}
}

func TestPostJSONConnectionErrorRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // guarantee connection refused

	caller, fs := newTestCaller(2)
	if _, err := caller.PostJSON(context.Background(), url, nil); err == nil {
		t.Fatal("expected connection error")
	}
	if len(fs.delays) != 1 {
		t.Errorf("expected one backoff before the final attempt, got %v", fs.delays)
	}
}

func TestPostJSONContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	caller := New(Config{MaxAttempts: 5, AttemptTimeout: 5 * time.Second, BackoffBase: time.Second})
	caller.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	if _, err := caller.PostJSON(ctx, srv.URL, nil); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Config{})
	if c.maxAttempts != DefaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultMaxAttempts, c.maxAttempts)
	}
	if c.attemptTimeout != DefaultAttemptTimeout {
		t.Errorf("expected %v timeout, got %v", DefaultAttemptTimeout, c.attemptTimeout)
	}
	if c.backoffBase != DefaultBackoffBase {
		t.Errorf("expected %v base, got %v", DefaultBackoffBase, c.backoffBase)
	}
}
