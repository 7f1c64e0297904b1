package server

import (
	"errors"
	"net/http"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	comp, today, err := s.requestContext(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, prep.ComputeSchedule(comp.Date, today))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
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
	if errors.Is(err, prep.ErrUnknownDay) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.log.Error("building plan", "day", day, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleMacros(w http.ResponseWriter, r *http.Request) {
	trainingDay, err := parseBool(r.URL.Query().Get("training_day"), true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "training_day must be true or false"})
		return
	}
	writeJSON(w, http.StatusOK, prep.MacroAdvice(trainingDay))
}

func (s *Server) handleDietReference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prep.DietReference())
}

type proteinRequest struct {
	Tally       models.ProteinTally `json:"tally"`
	Date        string              `json:"date"`
	Grams       float64             `json:"grams"`
	TrainingDay *bool               `json:"training_day"`
}

type proteinResponse struct {
	models.ProteinTally
	Remaining float64 `json:"remaining"`
}

// handleAddProtein folds grams into the tally the client sends back each time.
func (s *Server) handleAddProtein(w http.ResponseWriter, r *http.Request) {
	var req proteinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Date == "" {
		req.Date = s.todayString(r.URL.Query())
	}
	if req.Grams < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "grams must not be negative"})
		return
	}
	trainingDay := true
	if req.TrainingDay != nil {
		trainingDay = *req.TrainingDay
	}

	tally := prep.AddProtein(req.Tally, req.Date, req.Grams, trainingDay)
	writeJSON(w, http.StatusOK, proteinResponse{ProteinTally: tally, Remaining: tally.Remaining()})
}
