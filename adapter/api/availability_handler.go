package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
	availabilityQueries "github.com/stagehandhq/stagehand/internal/availability/application/queries"
	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	syncApp "github.com/stagehandhq/stagehand/internal/sync/application"
)

const dateLayout = "2006-01-02"

// AvailabilityHandler serves the artist-facing availability surface.
type AvailabilityHandler struct {
	setAvailability   *availabilityCommands.SetAvailabilityHandler
	clearAvailability *availabilityCommands.ClearAvailabilityHandler
	createBlock       *availabilityCommands.CreateBlockHandler
	deleteBlock       *availabilityCommands.DeleteBlockHandler
	getAvailability   *availabilityQueries.GetAvailabilityHandler
	getBlockedRanges  *availabilityQueries.GetBlockedRangesHandler
	listBlocks        *availabilityQueries.ListBlocksHandler
	importer          *syncApp.Importer
	exporter          *syncApp.Exporter
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(
	setAvailability *availabilityCommands.SetAvailabilityHandler,
	clearAvailability *availabilityCommands.ClearAvailabilityHandler,
	createBlock *availabilityCommands.CreateBlockHandler,
	deleteBlock *availabilityCommands.DeleteBlockHandler,
	getAvailability *availabilityQueries.GetAvailabilityHandler,
	getBlockedRanges *availabilityQueries.GetBlockedRangesHandler,
	listBlocks *availabilityQueries.ListBlocksHandler,
	importer *syncApp.Importer,
	exporter *syncApp.Exporter,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		setAvailability:   setAvailability,
		clearAvailability: clearAvailability,
		createBlock:       createBlock,
		deleteBlock:       deleteBlock,
		getAvailability:   getAvailability,
		getBlockedRanges:  getBlockedRanges,
		listBlocks:        listBlocks,
		importer:          importer,
		exporter:          exporter,
	}
}

type entryResponse struct {
	ArtistID  string `json:"artist_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
}

func toEntryResponse(entry availability.Entry) entryResponse {
	resp := entryResponse{
		ArtistID: entry.ArtistID.String(),
		Date:     entry.Date.Format(dateLayout),
		Status:   string(entry.Status),
		Notes:    entry.Notes,
	}
	if entry.BookingID != uuid.Nil {
		resp.BookingID = entry.BookingID.String()
	}
	return resp
}

// GetAvailability handles GET /artists/{artistID}/availability?start=&end=.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}
	start, end, ok := queryWindow(w, r)
	if !ok {
		return
	}

	entries, err := h.getAvailability.Handle(r.Context(), availabilityQueries.GetAvailabilityQuery{
		ArtistID: artistID, Start: start, End: end,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}

type setAvailabilityRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// SetAvailability handles PUT /artists/{artistID}/availability/{date}.
func (h *AvailabilityHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}
	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	var req setAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.setAvailability.Handle(r.Context(), availabilityCommands.SetAvailabilityCommand{
		ArtistID: artistID,
		Date:     date,
		Status:   availability.EntryStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// ClearAvailability handles DELETE /artists/{artistID}/availability/{date}.
func (h *AvailabilityHandler) ClearAvailability(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}
	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	if err := h.clearAvailability.Handle(r.Context(), availabilityCommands.ClearAvailabilityCommand{
		ArtistID: artistID, Date: date,
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type blockResponse struct {
	ID         string              `json:"id"`
	ArtistID   string              `json:"artist_id"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Reason     string              `json:"reason"`
	Recurrence *recurrenceResponse `json:"recurrence,omitempty"`
}

type recurrenceResponse struct {
	Pattern    string `json:"pattern"`
	EndDate    string `json:"end_date,omitempty"`
	DaysOfWeek []int  `json:"days_of_week,omitempty"`
}

func toBlockResponse(block *availability.Block) blockResponse {
	resp := blockResponse{
		ID:        block.ID().String(),
		ArtistID:  block.ArtistID().String(),
		StartDate: block.StartDate().Format(dateLayout),
		EndDate:   block.EndDate().Format(dateLayout),
		Reason:    block.Reason(),
	}
	if rec := block.Recurrence(); rec != nil {
		recResp := &recurrenceResponse{Pattern: string(rec.Pattern)}
		if rec.EndDate != nil {
			recResp.EndDate = rec.EndDate.Format(dateLayout)
		}
		for _, d := range rec.DaysOfWeek {
			recResp.DaysOfWeek = append(recResp.DaysOfWeek, int(d))
		}
		resp.Recurrence = recResp
	}
	return resp
}

// ListBlocks handles GET /artists/{artistID}/blocks.
func (h *AvailabilityHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}

	blocks, err := h.listBlocks.Handle(r.Context(), availabilityQueries.ListBlocksQuery{ArtistID: artistID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]blockResponse, 0, len(blocks))
	for _, block := range blocks {
		resp = append(resp, toBlockResponse(block))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createBlockRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	Recurrence *struct {
		Pattern    string `json:"pattern"`
		EndDate    string `json:"end_date"`
		DaysOfWeek []int  `json:"days_of_week"`
	} `json:"recurrence"`
}

// CreateBlock handles POST /artists/{artistID}/blocks.
func (h *AvailabilityHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}

	var req createBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	cmd := availabilityCommands.CreateBlockCommand{
		ArtistID:  artistID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if req.Recurrence != nil {
		rec := &availability.Recurrence{Pattern: availability.RecurrencePattern(req.Recurrence.Pattern)}
		if req.Recurrence.EndDate != "" {
			recEnd, err := time.ParseInLocation(dateLayout, req.Recurrence.EndDate, time.UTC)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid recurrence end_date")
				return
			}
			rec.EndDate = &recEnd
		}
		for _, d := range req.Recurrence.DaysOfWeek {
			rec.DaysOfWeek = append(rec.DaysOfWeek, time.Weekday(d))
		}
		cmd.Recurrence = rec
	}

	result, err := h.createBlock.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"block_id": result.BlockID.String()})
}

// DeleteBlock handles DELETE /artists/{artistID}/blocks/{blockID}.
func (h *AvailabilityHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}
	blockID, ok := pathUUID(w, r, "blockID")
	if !ok {
		return
	}

	deleted, err := h.deleteBlock.Handle(r.Context(), availabilityCommands.DeleteBlockCommand{
		ArtistID: artistID, BlockID: blockID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// GetBlockedRanges handles GET /artists/{artistID}/blocked-ranges?start=&end=.
func (h *AvailabilityHandler) GetBlockedRanges(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}
	start, end, ok := queryWindow(w, r)
	if !ok {
		return
	}

	ranges, err := h.getBlockedRanges.Handle(r.Context(), availabilityQueries.GetBlockedRangesQuery{
		ArtistID: artistID, Start: start, End: end,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type rangeResponse struct {
		Start  string `json:"start"`
		End    string `json:"end"`
		Reason string `json:"reason"`
	}
	resp := make([]rangeResponse, 0, len(ranges))
	for _, rng := range ranges {
		resp = append(resp, rangeResponse{
			Start:  rng.Start.Format(dateLayout),
			End:    rng.End.Format(dateLayout),
			Reason: rng.Reason,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type importEventRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// ImportCalendar handles POST /artists/{artistID}/calendar/import.
func (h *AvailabilityHandler) ImportCalendar(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}

	var reqs []importEventRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	events := make([]syncApp.CalendarEvent, 0, len(reqs))
	for _, req := range reqs {
		event := syncApp.CalendarEvent{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
		}
		if req.Start != "" {
			start, err := time.ParseInLocation(dateLayout, req.Start, time.UTC)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid event start")
				return
			}
			event.Start = start
		}
		if req.End != "" {
			end, err := time.ParseInLocation(dateLayout, req.End, time.UTC)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid event end")
				return
			}
			event.End = end
		}
		events = append(events, event)
	}

	result, err := h.importer.ImportEvents(r.Context(), artistID, events)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	errors := make([]string, 0, len(result.Errors))
	for _, importErr := range result.Errors {
		errors = append(errors, importErr.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   errors,
	})
}

// ExportICal handles GET /artists/{artistID}/calendar.ics.
func (h *AvailabilityHandler) ExportICal(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathUUID(w, r, "artistID")
	if !ok {
		return
	}

	doc, err := h.exporter.ExportICal(r.Context(), artistID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// pathUUID parses a UUID path segment, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pathDate parses the {date} path segment, writing a 400 on failure.
func pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.ParseInLocation(dateLayout, r.PathValue("date"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// queryWindow parses the start/end query parameters.
func queryWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("start"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("end"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
