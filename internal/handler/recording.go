package handler

import (
	"errors"
	"io"
	"net/http"
)

// recordingField is the multipart field that carries the video.
const recordingField = "file"

// UploadRecording handles POST /trainer/bookings/{id}/recordings.
// The video is streamed from the multipart body straight to the media store.
func (s *Server) UploadRecording(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		requestError(w, "request must be multipart/form-data")
		return
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			requestError(w, recordingField+" is required")
			return
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, r, err)
				return
			}
			requestError(w, "malformed multipart body")
			return
		}
		if part.FormName() != recordingField {
			_ = part.Close()
			continue
		}

		rec, err := s.Recordings.Upload(r.Context(), who.UserID, id, part)
		_ = part.Close()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, recordingToResponse(rec))
		return
	}
}

// ListMyRecordings handles GET /recordings. Expired and revoked recordings
// are not listed.
func (s *Server) ListMyRecordings(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	recs, err := s.Recordings.ListForCandidate(r.Context(), who.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(recs, recordingToResponse))
}

// AdminListRecordings handles GET /admin/recordings.
func (s *Server) AdminListRecordings(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Recordings.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(recs, recordingToResponse))
}

// AdminRevokeRecording handles POST /admin/recordings/{id}/revoke.
func (s *Server) AdminRevokeRecording(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := s.Recordings.Revoke(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordingToResponse(rec))
}
