package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	bookingCommands "github.com/stagehandhq/stagehand/internal/booking/application/commands"
	bookingQueries "github.com/stagehandhq/stagehand/internal/booking/application/queries"
	booking "github.com/stagehandhq/stagehand/internal/booking/domain"
)

// BookingHandler serves the venue-facing booking surface.
type BookingHandler struct {
	createBooking *bookingCommands.CreateBookingHandler
	updateStatus  *bookingCommands.UpdateBookingStatusHandler
	getBooking    *bookingQueries.GetBookingHandler
	listBookings  *bookingQueries.ListBookingsHandler
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(
	createBooking *bookingCommands.CreateBookingHandler,
	updateStatus *bookingCommands.UpdateBookingStatusHandler,
	getBooking *bookingQueries.GetBookingHandler,
	listBookings *bookingQueries.ListBookingsHandler,
) *BookingHandler {
	return &BookingHandler{
		createBooking: createBooking,
		updateStatus:  updateStatus,
		getBooking:    getBooking,
		listBookings:  listBookings,
	}
}

type bookingResponse struct {
	ID            string `json:"id"`
	ArtistID      string `json:"artist_id"`
	VenueID       string `json:"venue_id"`
	EventDate     string `json:"event_date"`
	EventEndDate  string `json:"event_end_date"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes,omitempty"`
}

func toBookingResponse(b *booking.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID().String(),
		ArtistID:      b.ArtistID().String(),
		VenueID:       b.VenueID().String(),
		EventDate:     b.EventDate().Format(dateLayout),
		EventEndDate:  b.EventEndDate().Format(dateLayout),
		Status:        string(b.Status()),
		PaymentStatus: string(b.PaymentStatus()),
		Notes:         b.Notes(),
	}
}

type createBookingRequest struct {
	ArtistID     string `json:"artist_id"`
	VenueID      string `json:"venue_id"`
	EventDate    string `json:"event_date"`
	EventEndDate string `json:"event_end_date"`
	Notes        string `json:"notes"`
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid artist_id")
		return
	}
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid venue_id")
		return
	}
	eventDate, err := time.ParseInLocation(dateLayout, req.EventDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event_date")
		return
	}
	var eventEndDate time.Time
	if req.EventEndDate != "" {
		eventEndDate, err = time.ParseInLocation(dateLayout, req.EventEndDate, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid event_end_date")
			return
		}
	}

	result, err := h.createBooking.Handle(r.Context(), bookingCommands.CreateBookingCommand{
		ArtistID:     artistID,
		VenueID:      venueID,
		EventDate:    eventDate,
		EventEndDate: eventEndDate,
		Notes:        req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(result))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /bookings/{bookingID}/status.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.updateStatus.Handle(r.Context(), bookingCommands.UpdateBookingStatusCommand{
		BookingID: bookingID,
		Status:    booking.Status(req.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(result))
}

// GetBooking handles GET /bookings/{bookingID}.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	result, err := h.getBooking.Handle(r.Context(), bookingQueries.GetBookingQuery{BookingID: bookingID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(result))
}

// ListBookings handles GET /bookings?artist_id=&venue_id=.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := bookingQueries.ListBookingsQuery{}
	if v := r.URL.Query().Get("artist_id"); v != "" {
		artistID, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid artist_id")
			return
		}
		query.ArtistID = artistID
	}
	if v := r.URL.Query().Get("venue_id"); v != "" {
		venueID, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid venue_id")
			return
		}
		query.VenueID = venueID
	}

	results, err := h.listBookings.Handle(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]bookingResponse, 0, len(results))
	for _, b := range results {
		resp = append(resp, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}
