// Package export writes the bodyweight and training logs to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/claude/meetprep/internal/models"
)

const (
	SheetBodyweight = "Bodyweight"
	SheetTraining   = "Training Log"
)

var (
	bodyweightColumns = []any{"Date", "Weight", "Target"}
	trainingColumns   = []any{"Date", "Exercise", "Weight", "Sets", "Reps", "RPE", "Note"}
)

// WriteWorkbook writes weights (charted against target) and training entries
// as two sheets. A zero target leaves the Target column empty and the chart
// with a single series.
func WriteWorkbook(w io.Writer, weights []models.BodyweightRecord, entries []models.TrainingLogEntry, target float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBodyweight); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetTraining); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeBodyweight(f, weights, target, header); err != nil {
		return err
	}
	if err := writeTraining(f, entries, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeBodyweight(f *excelize.File, weights []models.BodyweightRecord, target float64, header int) error {
	sheet := SheetBodyweight
	if err := f.SetSheetRow(sheet, "A1", &bodyweightColumns); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}

	for i, r := range weights {
		row := []any{r.Date, r.Weight}
		if target > 0 {
			row = append(row, target)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing bodyweight row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	if len(weights) == 0 {
		return nil
	}

	last := len(weights) + 1
	series := []excelize.ChartSeries{{
		Name:       fmt.Sprintf("'%s'!$B$1", sheet),
		Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
		Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
	}}
	if target > 0 {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$C$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", sheet, last),
		})
	}
	chart := &excelize.Chart{
		Type:      excelize.Line,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: "Bodyweight (kg)"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 480, Height: 290},
	}
	if err := f.AddChart(sheet, "E2", chart); err != nil {
		return fmt.Errorf("adding bodyweight chart: %w", err)
	}
	return nil
}

func writeTraining(f *excelize.File, entries []models.TrainingLogEntry, header int) error {
	sheet := SheetTraining
	if err := f.SetSheetRow(sheet, "A1", &trainingColumns); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", header); err != nil {
		return err
	}
	for i, e := range entries {
		row := []any{e.Date, e.Exercise, e.Weight, e.Sets, e.Reps, e.RPE, e.Note}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing training row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "G", "G", 40)
}
