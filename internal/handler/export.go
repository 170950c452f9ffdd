package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/casccoach/platform/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"booking_id", "created_at", "status", "candidate_id", "trainer_name",
	"session_mode", "session_type", "stations", "group_size", "price",
	"paid", "recording_consent", "scheduled_at",
}

// ExportRow is one booking in the JSON export.
type ExportRow struct {
	BookingID        openapi_types.UUID   `json:"booking_id"`
	CreatedAt        time.Time            `json:"created_at"`
	Status           domain.BookingStatus `json:"status"`
	CandidateID      openapi_types.UUID   `json:"candidate_id"`
	TrainerName      string               `json:"trainer_name,omitempty"`
	SessionMode      domain.SessionMode   `json:"session_mode"`
	SessionType      domain.SessionType   `json:"session_type"`
	Stations         int                  `json:"stations"`
	GroupSize        int                  `json:"group_size,omitempty"`
	Price            int                  `json:"price"`
	Paid             bool                 `json:"paid"`
	RecordingConsent bool                 `json:"recording_consent"`
	ScheduledAt      *time.Time           `json:"scheduled_at,omitempty"`
}

// ExportBookings handles GET /admin/bookings/export.
// It returns every booking as a flat table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportBookings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, mapSlice(rows, exportRowToResponse))
	case "csv":
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
	default:
		requestError(w, "format must be one of json csv")
	}
}

// buildCSV encodes rows as CSV with a header line.
func buildCSV(rows []domain.BookingExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(exportRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

func exportRowToResponse(r domain.BookingExportRow) ExportRow {
	return ExportRow{
		BookingID:        r.BookingID,
		CreatedAt:        r.CreatedAt,
		Status:           r.Status,
		CandidateID:      r.CandidateID,
		TrainerName:      r.TrainerName,
		SessionMode:      r.SessionMode,
		SessionType:      r.SessionType,
		Stations:         r.Stations,
		GroupSize:        r.GroupSize,
		Price:            r.Price,
		Paid:             r.Paid,
		RecordingConsent: r.RecordingConsent,
		ScheduledAt:      r.ScheduledAt,
	}
}

// exportRowToCSVRecord encodes a row as a flat string slice.
// Nil times and zero group sizes are encoded as empty strings.
func exportRowToCSVRecord(r domain.BookingExportRow) []string {
	groupSize := ""
	if r.GroupSize > 0 {
		groupSize = strconv.Itoa(r.GroupSize)
	}
	return []string{
		r.BookingID.String(),
		r.CreatedAt.UTC().Format(time.RFC3339),
		string(r.Status),
		r.CandidateID.String(),
		r.TrainerName,
		string(r.SessionMode),
		string(r.SessionType),
		strconv.Itoa(r.Stations),
		groupSize,
		strconv.Itoa(r.Price),
		strconv.FormatBool(r.Paid),
		strconv.FormatBool(r.RecordingConsent),
		formatOptionalTime(r.ScheduledAt),
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
