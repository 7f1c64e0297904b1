package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/storage"
)

//go:embed web/*.html
var webFS embed.FS

// pages holds the parsed dashboard templates.
type pages struct {
	dashboard *template.Template
}

func loadPages() *pages {
	funcMap := template.FuncMap{
		"num": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
		"pct": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
		"dayLabel": func(d models.Day) string {
			if d == models.DayRest {
				return "Rest"
			}
			return "Day " + strings.TrimPrefix(string(d), "day")
		},
	}
	return &pages{
		dashboard: template.Must(template.New("dashboard.html").Funcs(funcMap).ParseFS(webFS, "web/dashboard.html")),
	}
}

func (p *pages) render(w io.Writer, data any) error {
	return p.dashboard.Execute(w, data)
}

type dayLink struct {
	Day    models.Day
	URL    template.URL
	Active bool
}

type hiddenField struct {
	Name, Value string
}

func dayLinks(q url.Values, current models.Day) []dayLink {
	links := make([]dayLink, 0, len(models.Days))
	for _, d := range models.Days {
		v := carryParams(q)
		v.Set("day", string(d))
		links = append(links, dayLink{Day: d, URL: template.URL("/?" + v.Encode()), Active: d == current})
	}
	return links
}

func hiddenFields(v url.Values) []hiddenField {
	var out []hiddenField
	for _, k := range carryKeys {
		if val := v.Get(k); val != "" {
			out = append(out, hiddenField{Name: k, Value: val})
		}
	}
	return out
}

type proteinView struct {
	models.ProteinTally
	Remaining float64
}

type dashboardData struct {
	Plan     prep.Plan
	DayLinks []dayLink
	Carry    []hiddenField
	Error    string
	Protein  proteinView
	Diet     []models.DietReferenceRow
	Bounds   storage.WeightRange
	Target   float64
	Weights  []models.BodyweightRecord
	Exercise string
	Training []models.TrainingLogEntry

	Exercises     []string
	WeightChart   chart
	TrainingChart chart
}

// handleDashboard renders the single-page dashboard. The protein tally is
// carried in the query string (protein=<grams so far>&add=<grams>).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	comp, today, err := s.requestContext(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day := models.DayOne
	if v := q.Get("day"); v != "" {
		if day, err = models.ParseDay(v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	plan, err := prep.Build(comp, today, day, s.tables.Load())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	ctx := r.Context()
	weights, err := s.store.Weights(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	exercises, err := s.store.Exercises(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	exercise := q.Get("exercise")
	training, err := s.store.Training(ctx, storage.TrainingQuery{Exercise: exercise, Order: storage.OrderDesc})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := dashboardData{
		Plan:      plan,
		DayLinks:  dayLinks(q, day),
		Carry:     hiddenFields(carryParams(q)),
		Error:     q.Get("error"),
		Protein:   s.proteinFromQuery(q, plan.Schedule.Today, day.IsTrainingDay()),
		Diet:      prep.DietReference(),
		Bounds:    s.settings.Bodyweight,
		Target:    s.settings.BodyweightTarget,
		Weights:   storage.WeightsByDate(weights),
		Exercise:  exercise,
		Exercises: exercises,
		Training:  training,
	}
	wPoints, tPoints := storage.BodyweightTrend(weights, s.settings.BodyweightTarget)
	data.WeightChart = newChart(wPoints, tPoints)
	if exercise != "" {
		asc, err := s.store.Training(ctx, storage.TrainingQuery{Exercise: exercise, Order: storage.OrderAsc})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		data.TrainingChart = newChart(storage.TrainingTrend(asc))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.render(w, data); err != nil {
		s.log.Error("rendering dashboard", "error", err)
	}
}

func (s *Server) proteinFromQuery(q url.Values, date string, trainingDay bool) proteinView {
	tally := prep.AddProtein(models.ProteinTally{}, date, 0, trainingDay)
	if v, err := strconv.ParseFloat(q.Get("protein"), 64); err == nil {
		tally = prep.AddProtein(tally, date, v, trainingDay)
	}
	if v, err := strconv.ParseFloat(q.Get("add"), 64); err == nil {
		tally = prep.AddProtein(tally, date, v, trainingDay)
	}
	return proteinView{ProteinTally: tally, Remaining: tally.Remaining()}
}

// carryKeys are the competition overrides kept across links and redirects.
var carryKeys = []string{"competition", "squat", "bench", "deadlift", "today"}

func carryParams(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range carryKeys {
		if v := q.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

func (s *Server) redirectDashboard(w http.ResponseWriter, r *http.Request, err error) {
	q := carryParams(r.Form)
	if d := r.FormValue("day"); d != "" {
		q.Set("day", d)
	}
	if err != nil {
		q.Set("error", err.Error())
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleBodyweightForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	weight, err := strconv.ParseFloat(r.PostFormValue("weight"), 64)
	if err != nil {
		s.redirectDashboard(w, r, fmt.Errorf("weight must be a number"))
		return
	}
	date := r.PostFormValue("date")
	if date == "" {
		date = s.todayString(r.Form)
	}
	s.redirectDashboard(w, r, s.saveWeight(r, models.BodyweightRecord{Date: date, Weight: weight}))
}

func (s *Server) handleTrainingForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e := models.TrainingLogEntry{
		Date:     r.PostFormValue("date"),
		Exercise: strings.TrimSpace(r.PostFormValue("exercise")),
		Note:     r.PostFormValue("note"),
	}
	if e.Date == "" {
		e.Date = s.todayString(r.Form)
	}
	var errW, errS, errR, errP error
	e.Weight, errW = strconv.ParseFloat(r.PostFormValue("weight"), 64)
	e.Sets, errS = strconv.Atoi(r.PostFormValue("sets"))
	e.Reps, errR = strconv.Atoi(r.PostFormValue("reps"))
	e.RPE, errP = strconv.ParseFloat(r.PostFormValue("rpe"), 64)
	if errors.Join(errW, errS, errR, errP) != nil {
		s.redirectDashboard(w, r, fmt.Errorf("weight, sets, reps and RPE must be numbers"))
		return
	}
	s.redirectDashboard(w, r, s.appendTraining(r, e))
}
