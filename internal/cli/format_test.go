package cli

import (
	"math"
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{10, "10.00"},
		{120.5, "120.50"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-42.1, "-42.10"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(49.6); got != "50%" {
		t.Errorf("FormatPercent(49.6) = %q", got)
	}
	if got := FormatPercent(0); got != "0%" {
		t.Errorf("FormatPercent(0) = %q", got)
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s ago"},
		{125 * time.Second, "2m ago"},
		{3725 * time.Second, "1h 2m ago"},
		{-5 * time.Second, "0s ago"},
	}
	for _, tt := range tests {
		if got := FormatAgo(now.Add(-tt.d), now); got != tt.want {
			t.Errorf("FormatAgo(-%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncateAndMask(t *testing.T) {
	if got := Truncate("Clean water for Kenya", 10); got != "Clean wat…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := MaskSecret("abcdefghijklmnopqrstuvwxyz"); got != "abcdefgh...wxyz" {
		t.Errorf("MaskSecret = %q", got)
	}
	if got := MaskSecret("abc"); got != "****" {
		t.Errorf("MaskSecret = %q", got)
	}
}
