package routes

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/auth"
	"github.com/briangreenhill/coachbot/internal/coach"
)

type apiPlanRequest struct {
	Feature string          `json:"feature"`
	Profile athlete.Profile `json:"profile"`
}

type apiPlanResponse struct {
	Plan     *coach.Plan `json:"plan"`
	ShareURL string      `json:"share_url"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode JSON response")
	}
}

func (s *Server) handleAPIFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Coach.Catalog().Features())
}

func (s *Server) handleAPIPlan(w http.ResponseWriter, r *http.Request) {
	req := apiPlanRequest{Profile: athlete.Default()}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	plan, err := s.Coach.Plan(r.Context(), req.Feature, req.Profile)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("feature", req.Feature).Msg("plan generation failed")
		writeJSON(w, r, planErrorStatus(err), map[string]string{"error": coach.UserMessage(err)})
		return
	}
	writeJSON(w, r, http.StatusCreated, apiPlanResponse{
		Plan:     plan,
		ShareURL: s.Share.URL(plan.ID, auth.DefaultShareTTL),
	})
}
