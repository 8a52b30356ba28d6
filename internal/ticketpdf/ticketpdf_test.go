package ticketpdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
)

func ticket() *service.TicketView {
	return &service.TicketView{
		TicketID:      uuid.MustParse("6f1c2a4e-8c11-4a57-9f3b-2d0a7b9c1e55"),
		Status:        model.TicketConfirmed,
		SeatNumber:    "1A",
		PassengerName: "Rahim Uddin",
		MobileNumber:  "01711000001",
		BusName:       "Green Line Express",
		FromCity:      "Dhaka",
		ToCity:        "Rajshahi",
		BoardingPoint: "Gabtoli Bus Terminal",
		DroppingPoint: "Shaheb Bazar",
		Price:         model.Money{Amount: 80000, Currency: "BDT"},
		BookedAt:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	doc, name, err := Render(ticket())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(doc[:5]))
	assert.Equal(t, "ETICKET_1A_6f1c2a4e-8c11-4a57-9f3b-2d0a7b9c1e55.pdf", name)
}

func TestRenderCancelled(t *testing.T) {
	tk := ticket()
	tk.Status = model.TicketCancelled
	tk.CancellationReason = "changed plans"
	tk.SeatNumber = ""

	doc, name, err := Render(tk)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.Equal(t, "ETICKET_NA_6f1c2a4e-8c11-4a57-9f3b-2d0a7b9c1e55.pdf", name)
}
