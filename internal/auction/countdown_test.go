package auction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestCountdown covers every granularity band and its boundaries.
*/
func TestCountdown(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"multi_day", 49*time.Hour + 30*time.Minute, "2d 1h 30m"},
		{"exactly_one_day", 24 * time.Hour, "1d 0h 0m"},
		{"hours_band", 5*time.Hour + 4*time.Minute + 3*time.Second, "5h 4m 3s"},
		{"exactly_one_hour", 3600 * time.Second, "1h 0m 0s"},
		{"minutes_band", 12*time.Minute + 7*time.Second, "12m 7s"},
		{"exactly_one_minute", time.Minute, "1m 0s"},
		{"seconds_band", 42 * time.Second, "42s"},
		{"one_second", time.Second, "1s"},
		{"sub_second_rounds_down", 900 * time.Millisecond, "0s"},
		{"zero", 0, "Auction ended"},
		{"negative", -5 * time.Second, "Auction ended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Countdown(tt.remaining))
		})
	}
}

/*
TestAnonymizeBidder checks the public display rule for bidder names.
*/
func TestAnonymizeBidder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long_name", "Mohammed", "Moh***"},
		{"exactly_four", "Sara", "Sar***"},
		{"three_chars", "Ali", "A***"},
		{"one_char", "X", "X***"},
		{"empty", "", "***"},
		{"arabic", "محمد عبدالله", "محم***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeBidder(tt.input))
		})
	}
}
