package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/claude/meetprep/internal/models"
)

// requestContext resolves the competition and "today" for a request. Query
// parameters override the configured defaults.
func (s *Server) requestContext(q url.Values) (models.Competition, time.Time, error) {
	comp := s.settings.Competition

	if v := q.Get("competition"); v != "" {
		d, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return comp, time.Time{}, fmt.Errorf("competition: want YYYY-MM-DD, got %q", v)
		}
		comp.Date = d
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"squat", &comp.SquatMax},
		{"bench", &comp.BenchMax},
		{"deadlift", &comp.DeadliftMax},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return comp, time.Time{}, fmt.Errorf("%s: want a non-negative number, got %q", p.name, v)
		}
		*p.dst = f
	}

	today, err := s.today(q)
	return comp, today, err
}

func (s *Server) today(q url.Values) (time.Time, error) {
	v := q.Get("today")
	if v == "" {
		return s.now(), nil
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("today: want YYYY-MM-DD, got %q", v)
	}
	return d, nil
}

func (s *Server) todayString(q url.Values) string {
	t, err := s.today(q)
	if err != nil {
		t = s.now()
	}
	return t.Format(models.DateLayout)
}

func parseBool(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
