package remote

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/zjrosen/folio/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type autoplayRequest struct {
	Enabled *bool `json:"enabled"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.ErrorErr(log.CatRemote, "encode response failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) reply(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, s.State())
	case errors.Is(err, ErrBusy):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.State())
}

func (s *Server) handleAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.reply(w, s.submit(Command{Action: action, ClientID: middleware.GetReqID(r.Context())}))
	}
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}
	s.reply(w, s.submit(Command{Action: ActionGoTo, Index: idx, ClientID: middleware.GetReqID(r.Context())}))
}

// handleAutoplay sets autoplay from {"enabled": bool}; an empty body toggles.
func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	var req autoplayRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<10))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read body"})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
			return
		}
	}
	s.reply(w, s.submit(Command{Action: ActionAutoplay, Enabled: req.Enabled, ClientID: middleware.GetReqID(r.Context())}))
}
