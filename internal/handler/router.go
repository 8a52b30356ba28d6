package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router with the global middleware stack.
func NewRouter(bookings *BookingHandler, directory *DirectoryHandler, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger)
	r.Use(CORS(corsOrigin))

	r.Get("/health", HealthCheck)

	r.Route("/schedules", func(r chi.Router) {
		r.Get("/", directory.SearchSchedules)
		r.Get("/{id}/seats", bookings.GetSeatPlan)
	})
	r.Post("/bookings", bookings.BookSeat)
	r.Route("/tickets/{id}", func(r chi.Router) {
		r.Get("/", bookings.GetTicket)
		r.Get("/pdf", bookings.DownloadTicket)
		r.Post("/cancel", bookings.CancelBooking)
		r.Post("/settle", bookings.SettleBooking)
		r.Post("/use", bookings.MarkTicketUsed)
	})
	r.Route("/cities/{city}", func(r chi.Router) {
		r.Get("/boarding-points", directory.BoardingPoints)
		r.Get("/dropping-points", directory.DroppingPoints)
	})

	return r
}
