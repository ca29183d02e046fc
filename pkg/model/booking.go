package model

import (
	"fmt"
	"time"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Booking is one reservation of a bookable area. Date and times are
// area-local wall-clock values: the date is a plain YYYY-MM-DD string and
// start/end are HH:MM strings compared as minutes since midnight. Intervals
// are half-open [start, end), so a booking ending 18:00 never conflicts with
// one starting 18:00.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AreaID    string    `json:"area_id" bson:"area_id" validate:"required,min=1,max=64"`
	AreaName  string    `json:"area_name,omitempty" bson:"area_name,omitempty" validate:"omitempty,max=100"`
	Date      string    `json:"date" bson:"date" validate:"required,bookingdate"`
	Start     string    `json:"start" bson:"start" validate:"required,hhmm"`
	End       string    `json:"end" bson:"end" validate:"required,hhmm"`
	Unit      string    `json:"unit" bson:"unit" validate:"required,max=20"`
	Requester string    `json:"requester" bson:"requester" validate:"required,min=2,max=100"`
	Contact   string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"omitempty,max=100"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=active cancelled"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BookingDraft is the creation request. RulesAccepted is the consent flag
// the UI collects; it gates creation but is never persisted.
type BookingDraft struct {
	AreaID        string `json:"area_id" validate:"required,min=1,max=64"`
	Date          string `json:"date" validate:"required,bookingdate"`
	Start         string `json:"start" validate:"required,hhmm"`
	End           string `json:"end" validate:"required,hhmm"`
	Unit          string `json:"unit" validate:"required,max=20"`
	Requester     string `json:"requester" validate:"required,min=2,max=100"`
	Contact       string `json:"contact" validate:"omitempty,max=100"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
	RulesAccepted bool   `json:"rules_accepted"`
}

// MinutesOfDay parses an HH:MM string into minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", hhmm)
	}
	return h*60 + m, nil
}

// Interval returns the booking's [start, end) interval in minutes since
// midnight. An error means the stored record is malformed.
func (b *Booking) Interval() (start, end int, err error) {
	start, err = MinutesOfDay(b.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = MinutesOfDay(b.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
