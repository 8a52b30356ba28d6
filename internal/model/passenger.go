package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	minMobileDigits = 10
	maxMobileDigits = 15
)

// Passenger is a traveller, deduplicated by mobile number.
type Passenger struct {
	ID           uuid.UUID
	Name         string
	MobileNumber string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Tickets issued to the passenger, when loaded.
	Tickets []*Ticket
}

func NewPassenger(name, mobile, email string) (*Passenger, error) {
	if blank(name) {
		return nil, invalid("passenger_name", "is required")
	}
	if blank(mobile) {
		return nil, invalid("mobile_number", "is required")
	}
	if !ValidMobileNumber(mobile) {
		return nil, invalid("mobile_number", "invalid mobile number format")
	}
	return &Passenger{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		MobileNumber: strings.TrimSpace(mobile),
		Email:        strings.TrimSpace(email),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ValidMobileNumber accepts numbers with 10 to 15 digits; separators such as
// '+', '-' and spaces are ignored.
func ValidMobileNumber(mobile string) bool {
	digits := 0
	for _, r := range mobile {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minMobileDigits && digits <= maxMobileDigits
}

// UpdateContactInfo replaces the email; blank clears it.
func (p *Passenger) UpdateContactInfo(email string, now time.Time) {
	p.Email = strings.TrimSpace(email)
	p.UpdatedAt = now.UTC()
}

func (p *Passenger) AddTicket(t *Ticket) error {
	if t.PassengerID != p.ID {
		return invalid("passenger_id", "ticket belongs to another passenger")
	}
	p.Tickets = append(p.Tickets, t)
	return nil
}

// HasActiveTicketOn reports whether a Confirmed ticket on the schedule is
// among the loaded tickets.
func (p *Passenger) HasActiveTicketOn(scheduleID uuid.UUID) bool {
	for _, t := range p.Tickets {
		if t.ScheduleID == scheduleID && t.IsActive() {
			return true
		}
	}
	return false
}

func (p *Passenger) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.MobileNumber)
}
