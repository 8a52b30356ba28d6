// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/ticketpdf"
)

// BookingHandler holds the HTTP handlers for seat plans, bookings and
// tickets.
type BookingHandler struct {
	svc *service.BookingService
	log *slog.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, log *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// statusFor maps a failure kind onto an HTTP status.
func statusFor(kind service.FailureKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindSeatUnavailable, service.KindDuplicateBooking, service.KindConflict:
		return http.StatusConflict
	case service.KindBookingClosed, service.KindInvalidBooking:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeResult(w http.ResponseWriter, okStatus int, res service.BookingResult) {
	if res.Success {
		writeJSON(w, okStatus, res)
		return
	}
	writeJSON(w, statusFor(res.Kind), res)
}

// writeLookupError writes the response for a failed read.
func writeLookupError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "bus schedule not found")
	case errors.Is(err, service.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, "ticket not found")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	default:
		writeError(w, http.StatusInternalServerError, service.ErrUnavailable.Error())
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// GetSeatPlan handles GET /schedules/{id}/seats
func (h *BookingHandler) GetSeatPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	plan, err := h.svc.GetSeatPlan(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// BookSeat handles POST /bookings
// Reserves one seat on a schedule for a passenger.
func (h *BookingHandler) BookSeat(w http.ResponseWriter, r *http.Request) {
	var req service.BookSeatInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	writeResult(w, http.StatusCreated, h.svc.BookSeat(r.Context(), req))
}

// GetTicket handles GET /tickets/{id}
func (h *BookingHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := h.svc.GetTicketDetails(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

// DownloadTicket handles GET /tickets/{id}/pdf
func (h *BookingHandler) DownloadTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := h.svc.GetTicketDetails(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	doc, filename, err := ticketpdf.Render(ticket)
	if err != nil {
		h.log.Error("ticket.render_failed", "ticket_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render ticket")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles POST /tickets/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	writeResult(w, http.StatusOK, h.svc.CancelBooking(r.Context(), id, req.Reason))
}

// SettleBooking handles POST /tickets/{id}/settle
func (h *BookingHandler) SettleBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	writeResult(w, http.StatusOK, h.svc.SettleBooking(r.Context(), id))
}

// MarkTicketUsed handles POST /tickets/{id}/use
func (h *BookingHandler) MarkTicketUsed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	writeResult(w, http.StatusOK, h.svc.MarkTicketUsed(r.Context(), id))
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
