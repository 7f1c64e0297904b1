package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/claude/meetprep/internal/models"
)

const (
	chartWidth  = 600
	chartHeight = 160
)

// chart is an inline SVG line chart. All series share one y scale and are
// spaced evenly along x by index.
type chart struct {
	Width, Height int
	Lines         []string // SVG polyline points, one per series
	Min, Max      float64
	First, Last   string
}

// Empty reports whether there is nothing to draw.
func (c chart) Empty() bool { return len(c.Lines) == 0 }

func newChart(series ...[]models.TrendPoint) chart {
	c := chart{Width: chartWidth, Height: chartHeight, Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range series {
		for _, p := range s {
			c.Min = math.Min(c.Min, p.Value)
			c.Max = math.Max(c.Max, p.Value)
		}
	}
	if math.IsInf(c.Min, 1) {
		return chart{}
	}
	if c.Max == c.Min {
		c.Min--
		c.Max++
	}

	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		if c.First == "" {
			c.First, c.Last = s[0].Date, s[len(s)-1].Date
		}
		pts := make([]string, len(s))
		for i, p := range s {
			x := float64(chartWidth) / 2
			if len(s) > 1 {
				x = float64(i) * chartWidth / float64(len(s)-1)
			}
			y := chartHeight - (p.Value-c.Min)/(c.Max-c.Min)*chartHeight
			pts[i] = strconv.FormatFloat(x, 'f', 1, 64) + "," + strconv.FormatFloat(y, 'f', 1, 64)
		}
		c.Lines = append(c.Lines, strings.Join(pts, " "))
	}
	return c
}
