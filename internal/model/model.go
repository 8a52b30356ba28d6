// Package model defines the core domain types for the bus seat reservation
// system: buses and their seats, routes, schedules, passengers and tickets.
//
// Entities enforce their own invariants and never perform I/O. State
// transitions that other parts of the system care about return Event values
// rather than recording them internally.
package model

import (
	"strings"
	"time"
)

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// today returns the calendar day of now expressed in loc.
func today(now time.Time, loc *time.Location) time.Time {
	return DateOf(now.In(loc))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
