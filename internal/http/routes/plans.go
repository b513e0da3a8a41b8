package routes

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/auth"
	"github.com/briangreenhill/coachbot/internal/coach"
	"github.com/briangreenhill/coachbot/internal/jobs"
	"github.com/briangreenhill/coachbot/internal/markdown"
	"github.com/briangreenhill/coachbot/internal/prompt"
	"github.com/briangreenhill/coachbot/internal/store"
)

const historyLimit = 20

func (s *Server) homeData(p athlete.Profile, feature, errMsg string) map[string]any {
	names := s.Coach.Catalog().Names()
	if feature == "" && len(names) > 0 {
		feature = names[0]
	}
	return map[string]any{
		"Title":       "Athlete profile",
		"Profile":     p,
		"Feature":     feature,
		"Features":    names,
		"Diets":       athlete.Diets,
		"Intensities": athlete.Intensities,
		"MinAge":      athlete.MinAge,
		"MaxAge":      athlete.MaxAge,
		"MinDays":     athlete.MinTrainingDays,
		"MaxDays":     athlete.MaxTrainingDays,
		"MinMinutes":  athlete.MinSessionMinutes,
		"MaxMinutes":  athlete.MaxSessionMinutes,
		"Error":       errMsg,
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Sess.Get(r.Context(), sessProfile).(athlete.Profile)
	if !ok {
		p = athlete.Default()
	}
	feature := s.Sess.GetString(r.Context(), sessFeature)
	s.render(w, r, http.StatusOK, "home", s.homeData(p, feature, ""))
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	feature := strings.TrimSpace(r.PostForm.Get("feature"))

	p, err := athlete.FromForm(r.PostForm)
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "home", s.homeData(p, feature, coach.UserMessage(err)))
		return
	}
	// remember the answers so the form comes back pre-filled
	s.Sess.Put(r.Context(), sessProfile, p)
	s.Sess.Put(r.Context(), sessFeature, feature)

	plan, err := s.Coach.Plan(r.Context(), feature, p)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("feature", feature).Msg("plan generation failed")
		s.render(w, r, planErrorStatus(err), "home", s.homeData(p, feature, coach.UserMessage(err)))
		return
	}

	http.Redirect(w, r, "/plans/"+plan.ID.String(), http.StatusSeeOther)
}

func planErrorStatus(err error) int {
	var verr *athlete.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, prompt.ErrUnknownFeature):
		return http.StatusUnprocessableEntity
	case errors.Is(err, coach.ErrRateLimited):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) planPage(r *http.Request, plan *coach.Plan, shared bool) (map[string]any, error) {
	reply, err := markdown.ToHTML(plan.Response)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"Title":  plan.Feature,
		"Plan":   plan,
		"Reply":  reply,
		"Shared": shared,
	}
	if !shared {
		data["ShareURL"] = s.Share.URL(plan.ID, auth.DefaultShareTTL)
	}
	switch r.URL.Query().Get("emailed") {
	case "1":
		data["Notice"] = "Plan sent. Check your inbox."
	case "queued":
		data["Notice"] = "Plan queued for delivery. It should arrive shortly."
	}
	return data, nil
}

func (s *Server) loadPlan(w http.ResponseWriter, r *http.Request) (*coach.Plan, bool) {
	plan, err := s.Coach.Get(r.Context(), chi.URLParam(r, "planID"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load plan failed")
		http.Error(w, "could not load plan", http.StatusInternalServerError)
		return nil, false
	}
	return plan, true
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	data, err := s.planPage(r, plan, false)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render reply failed")
		http.Error(w, "could not render plan", http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "plan", data)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	id, err := s.Share.Verify(r.URL.Query().Get("token"))
	if err != nil {
		hlog.FromRequest(r).Info().Err(err).Msg("share link rejected")
		http.Error(w, "invalid or expired link", http.StatusUnauthorized)
		return
	}
	plan, err := s.Coach.Get(r.Context(), id.String())
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load shared plan failed")
		http.Error(w, "could not load plan", http.StatusInternalServerError)
		return
	}
	data, err := s.planPage(r, plan, true)
	if err != nil {
		http.Error(w, "could not render plan", http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "plan", data)
}

func (s *Server) handleEmailPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	to := strings.TrimSpace(r.PostForm.Get("email"))
	addr, err := mail.ParseAddress(to)
	if err != nil {
		data, rerr := s.planPage(r, plan, false)
		if rerr != nil {
			http.Error(w, "could not render plan", http.StatusInternalServerError)
			return
		}
		data["Error"] = "Please enter a valid e-mail address."
		s.render(w, r, http.StatusUnprocessableEntity, "plan", data)
		return
	}

	err = s.Jobs.EmailPlan(r.Context(), jobs.EmailPlanPayload{
		To:       addr.Address,
		PlanID:   plan.ID.String(),
		Feature:  plan.Feature,
		Sport:    plan.Profile.Sport,
		Position: plan.Profile.Position,
		Goal:     plan.Profile.Goal,
		Markdown: plan.Response,
		ShareURL: s.Share.URL(plan.ID, auth.DefaultShareTTL),
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("plan_id", plan.ID.String()).Msg("email plan failed")
		data, rerr := s.planPage(r, plan, false)
		if rerr != nil {
			http.Error(w, "could not render plan", http.StatusInternalServerError)
			return
		}
		data["Error"] = "We could not send the e-mail. Please try again later."
		s.render(w, r, http.StatusBadGateway, "plan", data)
		return
	}

	flag := "1"
	if _, queued := s.Jobs.(jobs.QueueDispatcher); queued {
		flag = "queued"
	}
	http.Redirect(w, r, "/plans/"+plan.ID.String()+"?emailed="+flag, http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	plans, err := s.Coach.Recent(r.Context(), historyLimit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list plans failed")
		http.Error(w, "could not load history", http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "history", map[string]any{
		"Title": "History",
		"Plans": plans,
	})
}
