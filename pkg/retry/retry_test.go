package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Backoff:      BackoffConstant,
	}
}

func TestRetryer_Success(t *testing.T) {
	r, err := New(fastConfig(3))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	attempts := 0
	err = r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("Do() error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryer_SuccessAfterRetries(t *testing.T) {
	r, _ := New(fastConfig(5))

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Do() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryer_MaxAttemptsExceeded(t *testing.T) {
	r, _ := New(fastConfig(3))

	cause := errors.New("timeout")
	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return cause
	})
	if !errors.Is(err, cause) {
		t.Errorf("Do() error = %v, want wrapped %v", err, cause)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryer_PermanentStopsImmediately(t *testing.T) {
	r, _ := New(fastConfig(5))

	cause := errors.New("missing column")
	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	})
	if err != cause {
		t.Errorf("Do() error = %v, want unwrapped %v", err, cause)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryer_SingleAttemptReturnsErrorAsIs(t *testing.T) {
	r, err := New(Config{MaxAttempts: 1, Backoff: BackoffConstant})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cause := errors.New("boom")
	if err := r.Do(context.Background(), func(ctx context.Context) error { return cause }); err != cause {
		t.Errorf("Do() error = %v, want %v", err, cause)
	}
}

func TestRetryer_ContextCancellation(t *testing.T) {
	cfg := fastConfig(10)
	cfg.InitialDelay = time.Second
	cfg.MaxDelay = time.Second
	r, _ := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.Do(ctx, func(ctx context.Context) error { return errors.New("unavailable") })
	if err == nil {
		t.Fatal("Do() error = nil, want context error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("Do() did not stop on context cancellation")
	}
}

func TestRetryer_OnRetryCallback(t *testing.T) {
	cfg := fastConfig(3)
	var seen []int
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		seen = append(seen, attempt)
	}
	r, _ := New(cfg)

	_ = r.Do(context.Background(), func(ctx context.Context) error { return errors.New("x") })

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", seen)
	}
}

func TestRetryer_Delay(t *testing.T) {
	tests := []struct {
		name    string
		backoff BackoffStrategy
		attempt int
		want    time.Duration
	}{
		{"constant", BackoffConstant, 3, 100 * time.Millisecond},
		{"linear", BackoffLinear, 3, 300 * time.Millisecond},
		{"exponential", BackoffExponential, 3, 400 * time.Millisecond},
		{"capped", BackoffExponential, 10, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(Config{
				MaxAttempts:  5,
				InitialDelay: 100 * time.Millisecond,
				MaxDelay:     time.Second,
				Backoff:      tt.backoff,
				Multiplier:   2,
			})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if got := r.delay(tt.attempt); got != tt.want {
				t.Errorf("delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero attempts", Config{MaxAttempts: 0}, true},
		{"max below initial", Config{MaxAttempts: 2, InitialDelay: time.Second, MaxDelay: time.Millisecond}, true},
		{"bad backoff", Config{MaxAttempts: 2, Backoff: "fibonacci"}, true},
		{"bad jitter", Config{MaxAttempts: 2, Jitter: 1.5}, true},
		{"empty backoff defaults", Config{MaxAttempts: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
