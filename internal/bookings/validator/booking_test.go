package validator

import (
	"strings"
	"testing"

	"festas/pkg/logger"
	"festas/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func draft() *model.BookingDraft {
	return &model.BookingDraft{
		AreaID:        "salon",
		Date:          "2024-05-10",
		Start:         "14:00",
		End:           "18:00",
		Unit:          "101",
		Requester:     "Maria Silva",
		RulesAccepted: true,
	}
}

func TestValidateDraft(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(d *model.BookingDraft)
		wantError bool
		wantIn    string
	}{
		{
			name:      "valid draft",
			mutate:    func(d *model.BookingDraft) {},
			wantError: false,
		},
		{
			name:      "missing area",
			mutate:    func(d *model.BookingDraft) { d.AreaID = "" },
			wantError: true,
			wantIn:    "AreaID",
		},
		{
			name:      "date with slashes",
			mutate:    func(d *model.BookingDraft) { d.Date = "10/05/2024" },
			wantError: true,
			wantIn:    "YYYY-MM-DD",
		},
		{
			name:      "start hour out of range",
			mutate:    func(d *model.BookingDraft) { d.Start = "25:00" },
			wantError: true,
			wantIn:    "HH:MM",
		},
		{
			name:      "start minute out of range",
			mutate:    func(d *model.BookingDraft) { d.Start = "09:60" },
			wantError: true,
			wantIn:    "HH:MM",
		},
		{
			name:      "missing leading zero",
			mutate:    func(d *model.BookingDraft) { d.Start = "9:00" },
			wantError: true,
			wantIn:    "HH:MM",
		},
		{
			name:      "end before start",
			mutate:    func(d *model.BookingDraft) { d.Start, d.End = "18:00", "14:00" },
			wantError: true,
			wantIn:    "end must be after start",
		},
		{
			name:      "zero length interval",
			mutate:    func(d *model.BookingDraft) { d.End = d.Start },
			wantError: true,
			wantIn:    "end must be after start",
		},
		{
			name:      "rules not accepted",
			mutate:    func(d *model.BookingDraft) { d.RulesAccepted = false },
			wantError: true,
			wantIn:    "rules",
		},
		{
			name:      "requester too short",
			mutate:    func(d *model.BookingDraft) { d.Requester = "M" },
			wantError: true,
			wantIn:    "Requester",
		},
		{
			name:      "missing unit",
			mutate:    func(d *model.BookingDraft) { d.Unit = "" },
			wantError: true,
			wantIn:    "Unit",
		},
		{
			name:      "notes too long",
			mutate:    func(d *model.BookingDraft) { d.Notes = strings.Repeat("x", 501) },
			wantError: true,
			wantIn:    "Notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft()
			tt.mutate(d)
			err := v.ValidateDraft(d)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantIn != "" && !strings.Contains(err.Error(), tt.wantIn) {
					t.Errorf("expected error mentioning %q, got: %v", tt.wantIn, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateInterval(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name                     string
		areaID, date, start, end string
		wantError                bool
	}{
		{"valid interval", "salon", "2024-05-10", "14:00", "18:00", false},
		{"midnight start", "salon", "2024-05-10", "00:00", "01:00", false},
		{"last slot of the day", "salon", "2024-05-10", "23:00", "23:59", false},
		{"missing area", "", "2024-05-10", "14:00", "18:00", true},
		{"impossible calendar date", "salon", "2024-02-30", "14:00", "18:00", true},
		{"reversed interval", "salon", "2024-05-10", "18:00", "14:00", true},
		{"equal start and end", "salon", "2024-05-10", "14:00", "14:00", true},
		{"dash instead of colon", "salon", "2024-05-10", "14-00", "18:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInterval(tt.areaID, tt.date, tt.start, tt.end)
			if tt.wantError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
