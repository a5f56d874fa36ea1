package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("allows up to burst immediately", func(t *testing.T) {
		limiter := NewRateLimiter(1, 3)

		for i := 0; i < 3; i++ {
			if !limiter.Allow() {
				t.Errorf("attempt %d should be allowed within burst", i+1)
			}
		}
	})

	t.Run("rejects after burst is exhausted", func(t *testing.T) {
		limiter := NewRateLimiter(1, 2)

		limiter.Allow()
		limiter.Allow()

		if limiter.Allow() {
			t.Error("expected rejection after burst exhausted")
		}
	})

	t.Run("refills over time", func(t *testing.T) {
		limiter := NewRateLimiter(100, 100) // быстрое пополнение для теста

		// опустошаем ведро
		for limiter.Allow() {
		}

		time.Sleep(50 * time.Millisecond) // ~5 токенов при rate 100/с

		if !limiter.Allow() {
			t.Error("expected token after refill period")
		}
	})
}

func TestRateLimiter_Defaults(t *testing.T) {
	t.Run("non-positive rate falls back to default", func(t *testing.T) {
		limiter := NewRateLimiter(0, 0)

		if !limiter.Allow() {
			t.Error("limiter with defaults should allow first attempt")
		}
		if limiter.Tokens() <= 0 {
			t.Errorf("expected positive token budget, got %f", limiter.Tokens())
		}
	})

	t.Run("burst below rate is raised", func(t *testing.T) {
		limiter := NewRateLimiter(10, 1)

		// burst поднимается до 2x rate, первые попытки проходят
		for i := 0; i < 10; i++ {
			if !limiter.Allow() {
				t.Fatalf("attempt %d should be allowed", i+1)
			}
		}
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("returns immediately when token available", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := limiter.Wait(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("waits for refill", func(t *testing.T) {
		limiter := NewRateLimiter(50, 50)
		for limiter.Allow() {
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		start := time.Now()
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if time.Since(start) > 500*time.Millisecond {
			t.Error("wait took longer than expected for refill")
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 1) // практически без пополнения
		limiter.Allow()                     // опустошаем

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := limiter.Wait(ctx); err != context.DeadlineExceeded {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})
}

func TestRateLimiter_Tokens(t *testing.T) {
	limiter := NewRateLimiter(1, 5)

	if limiter.Tokens() != 5 {
		t.Errorf("expected full bucket 5, got %f", limiter.Tokens())
	}

	limiter.Allow()
	limiter.Allow()

	// допускаем небольшое пополнение между вызовами
	tokens := limiter.Tokens()
	if tokens < 3 || tokens >= 4 {
		t.Errorf("expected ~3 tokens, got %f", tokens)
	}
}
