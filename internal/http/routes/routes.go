package routes

import (
	"bytes"
	"encoding/gob"
	"html/template"
	"net/http"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/auth"
	"github.com/briangreenhill/coachbot/internal/coach"
	appmw "github.com/briangreenhill/coachbot/internal/http/middleware"
	"github.com/briangreenhill/coachbot/internal/jobs"
)

// session keys
const (
	sessProfile = "profile"
	sessFeature = "feature"
)

func init() {
	// scs stores session values with encoding/gob
	gob.Register(athlete.Profile{})
}

type Server struct {
	Router *chi.Mux
	Sess   *scs.SessionManager
	Tmpl   *template.Template
	Coach  *coach.Service
	Share  auth.ShareLink // share-link helper
	Jobs   jobs.Dispatcher
}

type ServerOptions struct {
	Sess   *scs.SessionManager
	Tmpl   *template.Template
	Coach  *coach.Service
	Share  auth.ShareLink
	Jobs   jobs.Dispatcher
	Logger zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Sess: opts.Sess, Tmpl: opts.Tmpl, Coach: opts.Coach, Share: opts.Share, Jobs: opts.Jobs}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Get("/api/features", s.handleAPIFeatures)
	r.Post("/api/plans", s.handleAPIPlan)
	r.Get("/share", s.handleShare)

	// pages that read or write the form session
	r.Group(func(pr chi.Router) {
		pr.Use(s.Sess.LoadAndSave)
		pr.Get("/", s.handleHome)
		pr.Post("/plan", s.handleCreatePlan)
		pr.Get("/history", s.handleHistory)
		pr.Get("/plans/{planID}", s.handlePlan)
		pr.Post("/plans/{planID}/email", s.handleEmailPlan)
	})

	r.Get("/plans/{planID}/charts/macros.png", s.handleMacroChart)
	r.Get("/plans/{planID}/charts/load.png", s.handleLoadChart)

	return s
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.Tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render template failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
