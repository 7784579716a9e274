package domain

import (
	"strings"
	"time"
)

type MeetupStatus string

const (
	StatusComing    MeetupStatus = "coming"
	StatusStarted   MeetupStatus = "started"
	StatusCompleted MeetupStatus = "completed"
)

func ParseMeetupStatus(s string) (MeetupStatus, error) {
	switch st := MeetupStatus(strings.ToLower(s)); st {
	case StatusComing, StatusStarted, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// TimeSlot son las fechas de inicio y fin del meetup, ambas inclusivas.
type TimeSlot struct {
	Start  time.Time `json:"start_date"`
	Finish time.Time `json:"finish_date"`
}

func NewTimeSlot(start, finish time.Time) (TimeSlot, error) {
	if finish.Before(start) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{Start: start.UTC(), Finish: finish.UTC()}, nil
}

// StatusAt calcula el estado que corresponde en el día dado.
func (t TimeSlot) StatusAt(day time.Time) MeetupStatus {
	d := truncateDay(day)
	switch {
	case d.Before(truncateDay(t.Start)):
		return StatusComing
	case d.After(truncateDay(t.Finish)):
		return StatusCompleted
	default:
		return StatusStarted
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
