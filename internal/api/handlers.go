package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JustinTDCT/pifindex/internal/hash256"
	"github.com/JustinTDCT/pifindex/internal/httputil"
	"github.com/JustinTDCT/pifindex/internal/repository"
)

type submitHashRequest struct {
	Hash           string   `json:"hash"`
	Quality        int      `json:"quality"`
	SourcePath     string   `json:"source_path"`
	MediaKind      string   `json:"media_kind"`
	FrameNumber    *int     `json:"frame_number,omitempty"`
	FrameTimestamp *float64 `json:"frame_timestamp,omitempty"`
}

func (s *Server) submitHash(w http.ResponseWriter, r *http.Request) {
	var req submitHashRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	h, err := hash256.Parse(req.Hash)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_HASH", err.Error())
		return
	}

	kind := repository.MediaKind(req.MediaKind)
	if kind != repository.MediaImage && kind != repository.MediaFrame {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_MEDIA_KIND", "media_kind must be image or video_frame")
		return
	}
	if req.SourcePath == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_SOURCE_PATH", "source_path is required")
		return
	}

	rec := repository.Record{
		ID:             uuid.New(),
		Fingerprint:    h,
		Quality:        req.Quality,
		SourcePath:     req.SourcePath,
		MediaKind:      kind,
		FrameNumber:    req.FrameNumber,
		FrameTimestamp: req.FrameTimestamp,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Insert(r.Context(), rec); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INSERT_FAILED", err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": rec.ID.String()})
}

type matchResponse struct {
	SourcePath  string `json:"source_path"`
	MediaKind   string `json:"media_kind"`
	FrameNumber *int   `json:"frame_number,omitempty"`
	Distance    int    `json:"distance"`
	Quality     int    `json:"quality"`
}

func (s *Server) searchHashes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("hash")
	h, err := hash256.Parse(query)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_HASH", err.Error())
		return
	}

	tolerance := 31
	if v := r.URL.Query().Get("tolerance"); v != "" {
		tolerance, err = strconv.Atoi(v)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_TOLERANCE", "tolerance must be an integer")
			return
		}
	}

	matches, err := s.repo.Search(h, tolerance)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "SEARCH_FAILED", err.Error())
		return
	}

	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchResponse{
			SourcePath:  m.Record.SourcePath,
			MediaKind:   string(m.Record.MediaKind),
			FrameNumber: m.Record.FrameNumber,
			Distance:    m.Distance,
			Quality:     m.Record.Quality,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
