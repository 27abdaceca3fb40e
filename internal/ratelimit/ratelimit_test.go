package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFixedDelayFirstCallImmediate(t *testing.T) {
	fd := NewFixedDelay(time.Second)

	start := time.Now()
	if err := fd.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Expected first call to pass immediately, took %v", elapsed)
	}
}

func TestFixedDelaySpacesCalls(t *testing.T) {
	fd := NewFixedDelay(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := fd.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("Expected at least 100ms for 3 calls, got %v", elapsed)
	}
}

func TestFixedDelayHonoursContext(t *testing.T) {
	fd := NewFixedDelay(time.Hour)
	_ = fd.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := fd.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestTokenBucketBurstThenThrottle(t *testing.T) {
	tb := NewTokenBucket(2, time.Hour)

	if !tb.tryAcquire() || !tb.tryAcquire() {
		t.Fatal("Expected burst of 2 tokens")
	}
	if tb.tryAcquire() {
		t.Error("Expected bucket to be empty after burst")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := tb.Wait(ctx); err == nil {
		t.Error("Expected Wait to fail on an empty bucket")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(1, 20*time.Millisecond)
	ctx := context.Background()

	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	start := time.Now()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Expected to wait for refill, waited %v", elapsed)
	}
}

type countingLimiter struct{ calls int }

func (c *countingLimiter) Wait(context.Context) error {
	c.calls++
	return nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	cl := &countingLimiter{}
	r.Add("alphavantage", cl)

	if r.Get("alphavantage") != cl {
		t.Error("Expected registered limiter for alphavantage")
	}
	if r.Get("unknown") != nil {
		t.Error("Expected nil limiter for unknown provider")
	}
}

func TestTransportWaitsBeforeEachRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cl := &countingLimiter{}
	client := &http.Client{Transport: &Transport{Limiter: cl}}
	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		resp.Body.Close()
	}
	if cl.calls != 2 {
		t.Errorf("Expected 2 limiter calls, got %d", cl.calls)
	}
}
