package utils

import (
	"testing"
	"time"
)

func TestISO8601FromUnix(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{
			name:     "known timestamp",
			input:    1700000000,
			expected: "2023-11-14T22:13:20Z",
		},
		{
			name:     "epoch",
			input:    0,
			expected: "1970-01-01T00:00:00Z",
		},
		{
			name:     "round hour",
			input:    1756296000,
			expected: "2025-08-27T12:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ISO8601FromUnix(tt.input)
			if result != tt.expected {
				t.Errorf("ISO8601FromUnix(%d) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	from := time.Date(2026, 8, 27, 11, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	tr := TimeRange{From: from, To: to}

	tests := []struct {
		name     string
		input    time.Time
		expected bool
	}{
		{"inside range", from.Add(30 * time.Minute), true},
		{"lower bound inclusive", from, true},
		{"upper bound inclusive", to, true},
		{"before range", from.Add(-time.Second), false},
		{"after range", to.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Contains(tt.input); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRollingWindow(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	t.Run("last hour window", func(t *testing.T) {
		tr := LastHourRange(now)

		if !tr.To.Equal(now) {
			t.Errorf("expected To = now, got %v", tr.To)
		}
		if tr.Duration() != time.Hour {
			t.Errorf("expected duration 1h, got %v", tr.Duration())
		}
		if !tr.From.Equal(now.Add(-time.Hour)) {
			t.Errorf("expected From = now-1h, got %v", tr.From)
		}
	})

	t.Run("last days window", func(t *testing.T) {
		tr := LastDaysRange(now, 30)

		if tr.Duration() != 30*24*time.Hour {
			t.Errorf("expected duration 720h, got %v", tr.Duration())
		}
		if !tr.To.Equal(now) {
			t.Errorf("expected To = now, got %v", tr.To)
		}
	})

	t.Run("window edges are sliding, not calendar", func(t *testing.T) {
		// окно считается от момента оценки, не от начала суток
		tr := LastDaysRange(now, 1)
		if tr.From.Hour() != 12 {
			t.Errorf("expected From at 12:00, got %v", tr.From)
		}
	})
}
