package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/1broseidon/fakeos/internal/wm"
)

// maxEventBytes bounds the body of one posted event.
const maxEventBytes = 64 << 10

func (s *Server) handleDesktop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev wm.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event: "+err.Error())
		return
	}

	if _, err := s.session.Dispatch(ev); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, wm.ErrUnknownWindow) || errors.Is(err, wm.ErrUnknownApp) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}
