package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		fraction float64
		want     string
	}{
		{0.08, "8.00%"},
		{0.2, "20.00%"},
		{0, "0.00%"},
		{1.5, "150.00%"},
	}
	for _, tc := range cases {
		if got := FormatPercent(tc.fraction); got != tc.want {
			t.Errorf("FormatPercent(%f) = %q, want %q", tc.fraction, got, tc.want)
		}
	}
}

func TestFormatSignedPercent(t *testing.T) {
	cases := []struct {
		fraction float64
		want     string
	}{
		{-0.12, "-12.00%"},
		{0.03, "+3.00%"},
		{0, "0.00%"},
	}
	for _, tc := range cases {
		if got := FormatSignedPercent(tc.fraction); got != tc.want {
			t.Errorf("FormatSignedPercent(%f) = %q, want %q", tc.fraction, got, tc.want)
		}
	}
}

func TestFormatVolume(t *testing.T) {
	cases := []struct {
		volume float64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{500000, "500,000"},
		{4200000, "4,200,000"},
	}
	for _, tc := range cases {
		if got := FormatVolume(tc.volume); got != tc.want {
			t.Errorf("FormatVolume(%f) = %q, want %q", tc.volume, got, tc.want)
		}
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

	want := errors.New("persistent")
	err := Retry(context.Background(), cfg, func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, DefaultRetryConfig(), func() error {
		attempts++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
