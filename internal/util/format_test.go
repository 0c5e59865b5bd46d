package util

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{1500000, "1.5M"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{1200, "20m 0s"},
		{1263, "21m 3s"},
		{3900, "1h 5m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ms := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC).UnixMilli()
	if got := FormatTimestamp(ms, time.UTC); got != "2024-03-15 09:30" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}

func TestDefaultSessionsFile(t *testing.T) {
	if got := filepath.Base(DefaultSessionsFile()); got != SessionsFileName {
		t.Errorf("DefaultSessionsFile base = %q, want %q", got, SessionsFileName)
	}
}
