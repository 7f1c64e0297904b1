package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/claude/meetprep/internal/export"
	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/storage"
)

// storageStatus maps input errors to 400 and everything else to 500.
func storageStatus(err error) int {
	if storage.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// requireConfirm guards destructive requests behind ?confirm=yes.
func requireConfirm(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "yes" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "add ?confirm=yes to delete the whole log"})
		return false
	}
	return true
}

func (s *Server) saveWeight(r *http.Request, rec models.BodyweightRecord) error {
	if err := s.settings.Bodyweight.Check(rec.Weight); err != nil {
		return err
	}
	if err := s.store.SaveWeight(r.Context(), rec.Date, rec.Weight); err != nil {
		return err
	}
	s.log.Info("bodyweight saved", "date", rec.Date, "weight", rec.Weight, "user", userInfoFromContext(r).Login)
	return nil
}

func (s *Server) appendTraining(r *http.Request, e models.TrainingLogEntry) error {
	if err := storage.ValidateEntry(e); err != nil {
		return err
	}
	if err := s.store.AppendTraining(r.Context(), e); err != nil {
		return err
	}
	s.log.Info("training logged", "date", e.Date, "exercise", e.Exercise, "user", userInfoFromContext(r).Login)
	return nil
}

func (s *Server) handleListBodyweight(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Weights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []models.BodyweightRecord{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSaveBodyweight(w http.ResponseWriter, r *http.Request) {
	var rec models.BodyweightRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if rec.Date == "" {
		rec.Date = s.todayString(r.URL.Query())
	}
	if err := s.saveWeight(r, rec); err != nil {
		writeError(w, storageStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleClearBodyweight(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.store.ClearWeights(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Warn("bodyweight log cleared", "user", userInfoFromContext(r).Login)
	w.WriteHeader(http.StatusNoContent)
}

type bodyweightTrend struct {
	Target     float64             `json:"target,omitempty"`
	Weights    []models.TrendPoint `json:"weights"`
	TargetLine []models.TrendPoint `json:"target_line"`
}

func (s *Server) handleBodyweightTrend(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Weights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	weights, targets := storage.BodyweightTrend(rows, s.settings.BodyweightTarget)
	if weights == nil {
		weights = []models.TrendPoint{}
	}
	if targets == nil {
		targets = []models.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, bodyweightTrend{
		Target:     s.settings.BodyweightTarget,
		Weights:    weights,
		TargetLine: targets,
	})
}

func (s *Server) handleListTraining(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := storage.ParseOrder(q.Get("order"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := s.store.Training(r.Context(), storage.TrainingQuery{Exercise: q.Get("exercise"), Order: order})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []models.TrainingLogEntry{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAppendTraining(w http.ResponseWriter, r *http.Request) {
	var e models.TrainingLogEntry
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if e.Date == "" {
		e.Date = s.todayString(r.URL.Query())
	}
	if err := s.appendTraining(r, e); err != nil {
		writeError(w, storageStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleClearTraining(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.store.ClearTraining(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Warn("training log cleared", "user", userInfoFromContext(r).Login)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Exercises(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleTrainingTrend(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	rows, err := s.store.Training(r.Context(), storage.TrainingQuery{Exercise: exercise, Order: storage.OrderAsc})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	points := storage.TrainingTrend(rows)
	if points == nil {
		points = []models.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		if result != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "result": result})
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	weights, err := s.store.Weights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	entries, err := s.store.Training(r.Context(), storage.TrainingQuery{Order: storage.OrderAsc})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	weights = storage.WeightsByDate(weights)

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, weights, entries, s.settings.BodyweightTarget); err != nil {
		s.log.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="meetprep-%s.xlsx"`, s.now().Format(models.DateLayout)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
