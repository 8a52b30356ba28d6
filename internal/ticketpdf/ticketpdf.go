// Package ticketpdf renders a ticket as a printable e-ticket.
package ticketpdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
)

// Render returns the PDF document for the ticket and a download file name.
func Render(t *service.TicketView) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.SetCreationDate(t.BookedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	if t.Status != model.TicketConfirmed {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(200, 0, 0)
		pdf.Cell(0, 8, strings.ToUpper(string(t.Status)))
		pdf.Ln(10)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Courier", "", 11)
	lines := []string{
		fmt.Sprintf("Ticket         : %s", t.TicketID),
		fmt.Sprintf("Passenger      : %s", safe(t.PassengerName, "-")),
		fmt.Sprintf("Mobile         : %s", safe(t.MobileNumber, "-")),
		fmt.Sprintf("Bus            : %s (%s)", safe(t.BusName, "-"), safe(t.OperatorName, "-")),
		fmt.Sprintf("Class          : %s", safe(t.BusClass, "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(t.FromCity, "-"), safe(t.ToCity, "-")),
		fmt.Sprintf("Journey date   : %s", safe(t.JourneyDate, "-")),
		fmt.Sprintf("Departure      : %s", safe(t.DepartureTime, "-")),
		fmt.Sprintf("Arrival        : %s", safe(t.ArrivalTime, "-")),
		fmt.Sprintf("Seat           : %s", safe(t.SeatNumber, "-")),
		fmt.Sprintf("Boarding point : %s", safe(t.BoardingPoint, "-")),
		fmt.Sprintf("Dropping point : %s", safe(t.DroppingPoint, "-")),
		fmt.Sprintf("Fare           : %s", t.Price),
		fmt.Sprintf("Booked at      : %s", t.BookedAt.UTC().Format("2006-01-02 15:04 MST")),
	}
	if t.CancellationReason != "" {
		lines = append(lines, fmt.Sprintf("Cancelled      : %s", t.CancellationReason))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger and one seat. Please show it when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render ticket %s: %w", t.TicketID, err)
	}
	return buf.Bytes(), Filename(t), nil
}

// Filename is the download name of the ticket's PDF.
func Filename(t *service.TicketView) string {
	return fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(t.SeatNumber), t.TicketID)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}
