package model

import (
	"testing"
	"time"
)

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"14:00", 840, false},
		{"18:00", 1080, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MinutesOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MinutesOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("MinutesOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestBookingInterval(t *testing.T) {
	b := &Booking{Start: "14:00", End: "18:00"}
	start, end, err := b.Interval()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 840 || end != 1080 {
		t.Errorf("Interval() = (%d, %d), want (840, 1080)", start, end)
	}

	malformed := &Booking{Start: "2pm", End: "18:00"}
	if _, _, err := malformed.Interval(); err == nil {
		t.Error("expected error for malformed start time")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	live := &Session{ExpiresAt: now.Add(time.Hour)}
	if live.Expired(now) {
		t.Error("session expiring in an hour should not be expired")
	}
	stale := &Session{ExpiresAt: now.Add(-time.Minute)}
	if !stale.Expired(now) {
		t.Error("session past its expiry should be expired")
	}
}
