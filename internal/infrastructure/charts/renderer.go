package charts

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// Renderer draws the dashboard charts as SVG.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 640, Height: 360}
}

var conditionColors = map[entities.PatientCondition]drawing.Color{
	entities.ConditionStable:           drawing.ColorFromHex("22c55e"),
	entities.ConditionCritical:         drawing.ColorFromHex("ef4444"),
	entities.ConditionRecovering:       drawing.ColorFromHex("3b82f6"),
	entities.ConditionUnderObservation: drawing.ColorFromHex("f59e0b"),
}

// ConditionDonut renders the patient condition distribution.
func (r *Renderer) ConditionDonut(w io.Writer, counts []entities.ConditionCount) error {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", c.Condition, c.Count),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: conditionColors[c.Condition]},
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{
			Label: "No patients",
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex("e5e7eb")},
		})
	}

	donut := chart.DonutChart{
		Title:  "Patient Conditions",
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	return donut.Render(chart.SVG, w)
}

// WorkloadBars renders today's appointment count per doctor.
func (r *Renderer) WorkloadBars(w io.Writer, workload []entities.DoctorWorkload) error {
	bars := make([]chart.Value, 0, len(workload))
	max := 0
	for _, d := range workload {
		bars = append(bars, chart.Value{Label: d.Name, Value: float64(d.Count)})
		if d.Count > max {
			max = d.Count
		}
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "No appointments", Value: 0})
	}

	bar := chart.BarChart{
		Title:    "Doctor Workload",
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: barWidth(r.Width, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(max)},
		},
		Bars: bars,
	}
	return bar.Render(chart.SVG, w)
}

// AdmissionsLine renders admissions per day.
func (r *Renderer) AdmissionsLine(w io.Writer, days []entities.DailyAdmissions) error {
	if len(days) < 2 {
		return fmt.Errorf("admissions chart needs at least two days, got %d", len(days))
	}

	xs := make([]time.Time, len(days))
	ys := make([]float64, len(days))
	max := 0
	for i, d := range days {
		xs[i] = d.Date
		ys[i] = float64(d.Count)
		if d.Count > max {
			max = d.Count
		}
	}

	graph := chart.Chart{
		Title:  "Admissions (7 days)",
		Width:  r.Width,
		Height: r.Height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(max)},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Admissions",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("3b82f6"),
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

// headroom leaves 20% above the tallest value so the top point is not clipped.
func headroom(max int) float64 {
	if max <= 0 {
		return 1
	}
	return math.Ceil(float64(max) * 1.2)
}

func barWidth(width, bars int) int {
	if bars <= 0 {
		return 40
	}
	w := (width - 80) / (bars * 2)
	if w < 8 {
		return 8
	}
	if w > 60 {
		return 60
	}
	return w
}
