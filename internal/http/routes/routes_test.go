package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/coachbot/internal/auth"
	"github.com/briangreenhill/coachbot/internal/coach"
	"github.com/briangreenhill/coachbot/internal/coach/coachtest"
	"github.com/briangreenhill/coachbot/internal/jobs"
	"github.com/briangreenhill/coachbot/internal/store"
	"github.com/briangreenhill/coachbot/web"
)

type sentMail struct {
	to, subject, html string
}

type outbox struct {
	mu   sync.Mutex
	sent []sentMail
}

func (o *outbox) Send(to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentMail{to, subject, html})
	return nil
}

type testEnv struct {
	srv   *Server
	gen   *coachtest.Generator
	store *store.MemoryStore
	mail  *outbox
	share auth.ShareLink
}

func newTestEnv(t *testing.T, reply string) *testEnv {
	t.Helper()
	tmpl, err := web.Templates()
	require.NoError(t, err)

	gen := coachtest.New(reply)
	mem := store.NewMemoryStore()
	mail := &outbox{}
	share := auth.ShareLink{Secret: []byte("test-secret"), BaseURL: "http://coachbot.test"}

	srv := New(ServerOptions{
		Sess:   scs.New(),
		Tmpl:   tmpl,
		Coach:  coach.NewService(coach.ServiceOptions{Generator: gen, Store: mem, Logger: zerolog.Nop()}),
		Share:  share,
		Jobs:   jobs.InlineDispatcher{Sender: mail},
		Logger: zerolog.Nop(),
	})
	return &testEnv{srv: srv, gen: gen, store: mem, mail: mail, share: share}
}

func (e *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func athleteForm(feature string) url.Values {
	return url.Values{
		"sport":           {"Basketball"},
		"position":        {"Point guard"},
		"age":             {"24"},
		"injury":          {"Left knee"},
		"goal":            {"Build muscle"},
		"diet":            {"Vegetarian"},
		"intensity":       {"High"},
		"training_days":   {"5"},
		"session_minutes": {"75"},
		"feature":         {feature},
	}
}

// createPlan posts the form and returns the new plan id
func (e *testEnv) createPlan(t *testing.T, feature string) string {
	t.Helper()
	rec := e.do(http.MethodPost, "/plan", athleteForm(feature))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/plans/"), "unexpected redirect %q", loc)
	return strings.TrimPrefix(loc, "/plans/")
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t, "")
	rec := e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHomeRendersDefaults(t *testing.T) {
	e := newTestEnv(t, "")
	rec := e.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="age" type="range" min="10" max="80" value="21"`)
	assert.Contains(t, body, `value="4"`)
	assert.Contains(t, body, "<option selected>Full Workout Plan</option>")
	assert.Contains(t, body, "<option>Weekly Training Schedule</option>")
	assert.Contains(t, body, "<option selected>No Preference</option>")
	assert.Contains(t, body, "<option selected>Moderate</option>")
}

func TestCreatePlanRequiresSportAndGoal(t *testing.T) {
	e := newTestEnv(t, "unused")
	form := athleteForm("Full Workout Plan")
	form.Set("goal", "  ")

	rec := e.do(http.MethodPost, "/plan", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter at least the Sport and Goal.")
	assert.Contains(t, rec.Body.String(), `value="Basketball"`, "form keeps the submitted values")
	assert.Empty(t, e.gen.Prompts(), "generator must not be called")
}

func TestCreatePlanBadNumber(t *testing.T) {
	e := newTestEnv(t, "unused")
	form := athleteForm("Full Workout Plan")
	form.Set("age", "old")

	rec := e.do(http.MethodPost, "/plan", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Age must be a whole number")
}

func TestCreatePlanAndView(t *testing.T) {
	e := newTestEnv(t, "## Week 1\n\n- **Squats** 4x6")
	id := e.createPlan(t, "Full Workout Plan")

	prompts := e.gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Sport: Basketball")
	assert.Contains(t, prompts[0], "Injury/Risk Area: Left knee")
	assert.Contains(t, prompts[0], "Session Duration: 75 minutes")

	rec := e.do(http.MethodGet, "/plans/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Week 1</h2>")
	assert.Contains(t, body, "<strong>Squats</strong>")
	assert.Contains(t, body, "Session breakdown")
	assert.Contains(t, body, "Weekly schedule")
	assert.NotContains(t, body, "macros.png")
	assert.Contains(t, body, "http://coachbot.test/share?token=")
	assert.Contains(t, body, `action="/plans/`+id+`/email"`)
}

func TestCreatePlanGenerationFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"rate limited", coach.ErrRateLimited, http.StatusServiceUnavailable, "quota exceeded"},
		{"empty", coach.ErrEmptyResponse, http.StatusBadGateway, "empty answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, "")
			e.gen.Errs = []error{tt.err}

			rec := e.do(http.MethodPost, "/plan", athleteForm("Tactical Improvement Tips"))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.Contains(t, rec.Body.String(), "<form", "the form stays usable")
		})
	}
}

func TestCreatePlanUnknownFeature(t *testing.T) {
	e := newTestEnv(t, "unused")
	rec := e.do(http.MethodPost, "/plan", athleteForm("Horoscope"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "listed coaching features")
}

func TestSessionPrefillsForm(t *testing.T) {
	e := newTestEnv(t, "Rest well")
	ts := httptest.NewServer(e.srv.Router)
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.PostForm(ts.URL+"/plan", athleteForm("Weekly Nutrition Plan"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.Contains(t, body, `value="Basketball"`)
	assert.Contains(t, body, `value="Left knee"`)
	assert.Contains(t, body, "<option selected>Vegetarian</option>")
	assert.Contains(t, body, "<option selected>Weekly Nutrition Plan</option>")
}

func TestPlanNotFound(t *testing.T) {
	e := newTestEnv(t, "")
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/plans/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/plans/nope", nil).Code)
}

func TestCharts(t *testing.T) {
	e := newTestEnv(t, "Eat your greens")
	nutrition := e.createPlan(t, "Weekly Nutrition Plan")

	rec := e.do(http.MethodGet, "/plans/"+nutrition+"/charts/macros.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/plans/"+nutrition+"/charts/load.png", nil).Code)

	schedule := e.createPlan(t, "Weekly Training Schedule")
	rec = e.do(http.MethodGet, "/plans/"+schedule+"/charts/load.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestShare(t *testing.T) {
	e := newTestEnv(t, "Visualise the play")
	id := e.createPlan(t, "Tactical Improvement Tips")

	token := e.share.Sign(uuid.MustParse(id), time.Now().Add(time.Hour))
	rec := e.do(http.MethodGet, "/share?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Visualise the play")
	assert.NotContains(t, rec.Body.String(), "/email", "shared view is read-only")

	expired := e.share.Sign(uuid.MustParse(id), time.Now().Add(-time.Hour))
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/share?token="+url.QueryEscape(expired), nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/share?token=garbage", nil).Code)

	missing := e.share.Sign(uuid.New(), time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/share?token="+url.QueryEscape(missing), nil).Code)
}

func TestEmailPlan(t *testing.T) {
	e := newTestEnv(t, "## Monday\nIntervals")
	id := e.createPlan(t, "Full Workout Plan")

	rec := e.do(http.MethodPost, "/plans/"+id+"/email", url.Values{"email": {"not-an-address"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid e-mail address")
	assert.Empty(t, e.mail.sent)

	rec = e.do(http.MethodPost, "/plans/"+id+"/email", url.Values{"email": {"athlete@example.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/plans/"+id+"?emailed=1", rec.Header().Get("Location"))

	require.Len(t, e.mail.sent, 1)
	assert.Equal(t, "athlete@example.com", e.mail.sent[0].to)
	assert.Contains(t, e.mail.sent[0].subject, "Full Workout Plan")
	assert.Contains(t, e.mail.sent[0].html, "<h2>Monday</h2>")
	assert.Contains(t, e.mail.sent[0].html, "http://coachbot.test/share?token=")

	rec = e.do(http.MethodGet, "/plans/"+id+"?emailed=1", nil)
	assert.Contains(t, rec.Body.String(), "Plan sent")
}

func TestEmailPlanStripsDisplayName(t *testing.T) {
	e := newTestEnv(t, "Stretch daily")
	id := e.createPlan(t, "Warm-up & Cooldown Routine")

	rec := e.do(http.MethodPost, "/plans/"+id+"/email", url.Values{"email": {"Coach Bob <bob@example.com>"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	require.Len(t, e.mail.sent, 1)
	assert.Equal(t, "bob@example.com", e.mail.sent[0].to)
}

func TestHistory(t *testing.T) {
	e := newTestEnv(t, "reply")
	rec := e.do(http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No plans yet")

	id := e.createPlan(t, "Recovery & Injury-Safe Training")
	rec = e.do(http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/plans/`+id+`"`)
	assert.Contains(t, rec.Body.String(), "Recovery &amp; Injury-Safe Training")
}

func TestAPIFeatures(t *testing.T) {
	e := newTestEnv(t, "")
	rec := e.do(http.MethodGet, "/api/features", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var features []struct {
		Name    string   `json:"name"`
		Visuals []string `json:"visuals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &features))
	require.Len(t, features, 6)
	assert.Equal(t, "Full Workout Plan", features[0].Name)
	assert.Equal(t, []string{"macros"}, features[2].Visuals)
}

func TestAPIPlan(t *testing.T) {
	e := newTestEnv(t, "Protein at every meal")

	body := `{"feature": "Weekly Nutrition Plan", "profile": {"sport": "Cycling", "goal": "Endurance", "diet": "Vegan"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Plan struct {
			ID       string `json:"id"`
			Response string `json:"response"`
			Profile  struct {
				Age  int    `json:"age"`
				Diet string `json:"diet"`
			} `json:"profile"`
			Visuals struct {
				Macros *struct {
					Protein, Carbs, Fat int
				} `json:"macros"`
			} `json:"visuals"`
		} `json:"plan"`
		ShareURL string `json:"share_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Protein at every meal", resp.Plan.Response)
	assert.Equal(t, 21, resp.Plan.Profile.Age, "missing fields take defaults")
	assert.Equal(t, "Vegan", resp.Plan.Profile.Diet)
	require.NotNil(t, resp.Plan.Visuals.Macros)
	assert.Equal(t, 100, resp.Plan.Visuals.Macros.Protein+resp.Plan.Visuals.Macros.Carbs+resp.Plan.Visuals.Macros.Fat)
	assert.True(t, strings.HasPrefix(resp.ShareURL, "http://coachbot.test/share?token="))
}

func TestAPIPlanErrors(t *testing.T) {
	e := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plans",
		strings.NewReader(`{"feature": "Full Workout Plan", "profile": {"sport": "Judo", "goal": "Power", "age": 95}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Age must be between 10 and 80.")
}
