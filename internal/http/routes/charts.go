package routes

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/coachbot/internal/charts"
)

func (s *Server) handleMacroChart(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	if plan.Visuals.Macros == nil {
		http.Error(w, "plan has no macro chart", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := charts.MacroPie(&buf, *plan.Visuals.Macros); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("draw macro chart failed")
		http.Error(w, "could not draw chart", http.StatusInternalServerError)
		return
	}
	writePNG(w, r, buf.Bytes())
}

func (s *Server) handleLoadChart(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	if len(plan.Visuals.Load) == 0 {
		http.Error(w, "plan has no load chart", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := charts.WeeklyLoad(&buf, plan.Visuals.Load); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("draw load chart failed")
		http.Error(w, "could not draw chart", http.StatusInternalServerError)
		return
	}
	writePNG(w, r, buf.Bytes())
}

func writePNG(w http.ResponseWriter, r *http.Request, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	// plans never change once saved
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(b); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("write chart")
	}
}
