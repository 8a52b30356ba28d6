package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SeatPlan is the seat map of one schedule.
type SeatPlan struct {
	ScheduleID     uuid.UUID   `json:"schedule_id"`
	BusID          uuid.UUID   `json:"bus_id"`
	BusName        string      `json:"bus_name"`
	OperatorName   string      `json:"operator_name"`
	BusClass       string      `json:"bus_class"`
	FromCity       string      `json:"from_city"`
	ToCity         string      `json:"to_city"`
	JourneyDate    string      `json:"journey_date"`
	DepartureTime  string      `json:"departure_time"`
	ArrivalTime    string      `json:"arrival_time"`
	Price          model.Money `json:"price"`
	TotalSeats     int         `json:"total_seats"`
	AvailableSeats int         `json:"available_seats"`
	BookedSeats    int         `json:"booked_seats"`
	Seats          []SeatView  `json:"seats"`
}

type SeatView struct {
	SeatID      uuid.UUID        `json:"seat_id"`
	SeatNumber  string           `json:"seat_number"`
	Row         string           `json:"row"`
	Status      model.SeatStatus `json:"status"`
	IsAvailable bool             `json:"is_available"`
}

// TicketView is the read-only representation of a ticket with its seat,
// passenger and journey.
type TicketView struct {
	TicketID           uuid.UUID          `json:"ticket_id"`
	Status             model.TicketStatus `json:"status"`
	ScheduleID         uuid.UUID          `json:"schedule_id"`
	SeatID             uuid.UUID          `json:"seat_id"`
	SeatNumber         string             `json:"seat_number,omitempty"`
	PassengerID        uuid.UUID          `json:"passenger_id"`
	PassengerName      string             `json:"passenger_name,omitempty"`
	MobileNumber       string             `json:"mobile_number,omitempty"`
	Email              string             `json:"email,omitempty"`
	BusName            string             `json:"bus_name,omitempty"`
	OperatorName       string             `json:"operator_name,omitempty"`
	BusClass           string             `json:"bus_class,omitempty"`
	FromCity           string             `json:"from_city,omitempty"`
	ToCity             string             `json:"to_city,omitempty"`
	BoardingPoint      string             `json:"boarding_point"`
	DroppingPoint      string             `json:"dropping_point"`
	JourneyDate        string             `json:"journey_date,omitempty"`
	DepartureTime      string             `json:"departure_time,omitempty"`
	ArrivalTime        string             `json:"arrival_time,omitempty"`
	Price              model.Money        `json:"price"`
	BookedAt           time.Time          `json:"booked_at"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CanBeCancelled     bool               `json:"can_be_cancelled"`
}

func newSeatPlan(s *model.BusSchedule) *SeatPlan {
	plan := &SeatPlan{
		ScheduleID:    s.ID,
		BusID:         s.BusID,
		JourneyDate:   s.JourneyDate.Format(dateLayout),
		DepartureTime: s.DepartureTime.Format(timeLayout),
		ArrivalTime:   s.ArrivalTime.Format(timeLayout),
		Price:         s.Price,
		Seats:         []SeatView{},
	}
	if r := s.Route; r != nil {
		plan.FromCity, plan.ToCity = r.FromCity, r.ToCity
	}
	if b := s.Bus; b != nil {
		plan.BusName = b.Name
		plan.OperatorName = b.OperatorName
		plan.BusClass = b.Class
		plan.TotalSeats = b.TotalSeats
		plan.AvailableSeats = b.AvailableSeatCount()
		plan.BookedSeats = b.BookedSeatCount()
		plan.Seats = make([]SeatView, 0, len(b.Seats))
		for _, seat := range b.Seats {
			plan.Seats = append(plan.Seats, SeatView{
				SeatID:      seat.ID,
				SeatNumber:  seat.Number,
				Row:         seat.Row,
				Status:      seat.Status(),
				IsAvailable: seat.IsAvailable(),
			})
		}
	}
	return plan
}

func newTicketView(t *model.Ticket, now time.Time) *TicketView {
	v := &TicketView{
		TicketID:           t.ID,
		Status:             t.Status(),
		ScheduleID:         t.ScheduleID,
		SeatID:             t.SeatID,
		PassengerID:        t.PassengerID,
		BoardingPoint:      t.BoardingPoint,
		DroppingPoint:      t.DroppingPoint,
		Price:              t.Price,
		BookedAt:           t.BookedAt,
		CancellationReason: t.CancellationReason(),
	}
	if t.Seat != nil {
		v.SeatNumber = t.Seat.Number
	}
	if p := t.Passenger; p != nil {
		v.PassengerName = p.Name
		v.MobileNumber = p.MobileNumber
		v.Email = p.Email
	}
	if s := t.Schedule; s != nil {
		v.JourneyDate = s.JourneyDate.Format(dateLayout)
		v.DepartureTime = s.DepartureTime.Format(timeLayout)
		v.ArrivalTime = s.ArrivalTime.Format(timeLayout)
		v.CanBeCancelled = t.CanBeCancelled(now)
		if b := s.Bus; b != nil {
			v.BusName = b.Name
			v.OperatorName = b.OperatorName
			v.BusClass = b.Class
		}
		if r := s.Route; r != nil {
			v.FromCity, v.ToCity = r.FromCity, r.ToCity
		}
	}
	return v
}
