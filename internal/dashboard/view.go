package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/internal/models"
)

// middayRow picks the representative row for the headline metrics: the
// first row whose local hour is 12, falling back to the middle row when
// no exact noon sample exists. The middle-row fallback is deliberate so
// days with shifted or truncated axes still show something sensible.
func middayRow(table models.ForecastTable) (models.ForecastRow, bool) {
	if len(table) == 0 {
		return models.ForecastRow{}, false
	}
	for _, row := range table {
		if row.Time.Hour() == 12 {
			return row, true
		}
	}
	return table[len(table)/2], true
}

// fmtSample renders a metric value, or a dash when the sample is
// unavailable.
func fmtSample(v float64, prec int) string {
	if !models.HasSample(v) {
		return "–"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func fmtSampleUnit(v float64, prec int, unit string) string {
	if !models.HasSample(v) {
		return "–"
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + unit
}

// bioItem is one parsed bullet of the marine life summary.
type bioItem struct {
	Name string
	Note string
}

var bulletPattern = regexp.MustCompile(`^[-*]\s+\*\*(.+?)\*\*\s*[:：]?\s*(.*)$`)

// parseBullets extracts "- **name**: note" bullets from the model output.
// It returns nil when the text does not look like a bullet list; the
// caller then renders the raw text as plain text instead of failing.
func parseBullets(text string) []bioItem {
	var items []bioItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		items = append(items, bioItem{Name: m[1], Note: m[2]})
	}
	return items
}

const (
	chartWidth  = 640
	chartHeight = 200
	chartPad    = 10
)

// chartMetric selects one metric of the table for charting.
type chartMetric struct {
	Label string
	Color string
	Value func(models.ForecastRow) float64
}

// chartSeries is one polyline of an inline SVG chart.
type chartSeries struct {
	Label  string
	Color  string
	Points string
}

type chartView struct {
	Title  string
	Series []chartSeries
	MinY   string
	MaxY   string
}

// buildChart projects the given metrics across the table into SVG
// polyline points. All series share one vertical scale. Unavailable
// samples are skipped, never plotted. Returns nil when no metric has a
// single available sample.
func buildChart(title string, table models.ForecastTable, metrics []chartMetric) *chartView {
	if len(table) == 0 {
		return nil
	}

	min, max, any := scanRange(table, metrics)
	if !any {
		return nil
	}
	if min == max {
		min, max = min-1, max+1
	}

	xStep := float64(chartWidth-2*chartPad) / float64(len(table))
	if len(table) > 1 {
		xStep = float64(chartWidth-2*chartPad) / float64(len(table)-1)
	}

	view := &chartView{
		Title: title,
		MinY:  strconv.FormatFloat(min, 'f', 1, 64),
		MaxY:  strconv.FormatFloat(max, 'f', 1, 64),
	}
	for _, metric := range metrics {
		var points []string
		for i, row := range table {
			v := metric.Value(row)
			if !models.HasSample(v) {
				continue
			}
			x := float64(chartPad) + float64(i)*xStep
			y := float64(chartHeight-chartPad) - (v-min)/(max-min)*float64(chartHeight-2*chartPad)
			points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		if len(points) == 0 {
			continue
		}
		view.Series = append(view.Series, chartSeries{
			Label:  metric.Label,
			Color:  metric.Color,
			Points: strings.Join(points, " "),
		})
	}
	if len(view.Series) == 0 {
		return nil
	}
	return view
}

func scanRange(table models.ForecastTable, metrics []chartMetric) (min, max float64, any bool) {
	for _, metric := range metrics {
		for _, row := range table {
			v := metric.Value(row)
			if !models.HasSample(v) {
				continue
			}
			if !any || v < min {
				min = v
			}
			if !any || v > max {
				max = v
			}
			any = true
		}
	}
	return min, max, any
}

// middayView is the headline metrics block of the dashboard.
type middayView struct {
	Weather     string
	Temperature string
	WindSpeed   string
	WindDir     string
	WaveHeight  string
	WavePeriod  string
}

type rowView struct {
	Hour          string
	Weather       string
	Temperature   string
	Precipitation string
	WindSpeed     string
	WindDirection string
	WaveHeight    string
	WavePeriod    string
	SwellHeight   string
}

// reportView is the rendered form of the last query result.
type reportView struct {
	SpotName       string
	Date           string
	GeneratedAt    string
	PastDataNotice bool
	ForecastErr    string
	HasTable       bool
	Midday         *middayView
	Rows           []rowView
	WaveChart      *chartView
	WindChart      *chartView
	BioMonth       int
	BioItems       []bioItem
	BioText        string
}

func newReportView(report *models.DiveReport) *reportView {
	view := &reportView{
		SpotName:       report.Spot.Name,
		Date:           report.Date.Format("2006-01-02"),
		GeneratedAt:    report.GeneratedAt.Format("2006-01-02 15:04"),
		PastDataNotice: report.Date.Before(time.Now().AddDate(0, 0, -7)),
		ForecastErr:    report.ForecastErr,
		BioMonth:       int(report.Date.Month()),
	}

	if items := parseBullets(report.BioSummary); items != nil {
		view.BioItems = items
	} else {
		view.BioText = report.BioSummary
	}

	if report.ForecastErr != "" || len(report.Table) == 0 {
		return view
	}
	view.HasTable = true

	if row, ok := middayRow(report.Table); ok {
		view.Midday = &middayView{
			Weather:     row.Weather,
			Temperature: fmtSampleUnit(row.Temperature, 1, "°C"),
			WindSpeed:   fmtSampleUnit(row.WindSpeed, 1, "km/h"),
			WindDir:     fmtSampleUnit(row.WindDirection, 0, "°"),
			WaveHeight:  fmtSampleUnit(row.WaveHeight, 2, "m"),
			WavePeriod:  fmtSampleUnit(row.WavePeriod, 1, "s"),
		}
	}

	for _, row := range report.Table {
		view.Rows = append(view.Rows, rowView{
			Hour:          row.Time.Format("15:04"),
			Weather:       row.Weather,
			Temperature:   fmtSample(row.Temperature, 1),
			Precipitation: fmtSample(row.Precipitation, 1),
			WindSpeed:     fmtSample(row.WindSpeed, 1),
			WindDirection: fmtSample(row.WindDirection, 0),
			WaveHeight:    fmtSample(row.WaveHeight, 2),
			WavePeriod:    fmtSample(row.WavePeriod, 1),
			SwellHeight:   fmtSample(row.SwellHeight, 2),
		})
	}

	view.WaveChart = buildChart("Wave and swell height (m)", report.Table, []chartMetric{
		{Label: "Wave height", Color: "#2196F3", Value: func(r models.ForecastRow) float64 { return r.WaveHeight }},
		{Label: "Swell height", Color: "#4CAF50", Value: func(r models.ForecastRow) float64 { return r.SwellHeight }},
	})
	view.WindChart = buildChart("Wind speed (km/h) and temperature (°C)", report.Table, []chartMetric{
		{Label: "Wind speed", Color: "#FF9800", Value: func(r models.ForecastRow) float64 { return r.WindSpeed }},
		{Label: "Temperature", Color: "#E91E63", Value: func(r models.ForecastRow) float64 { return r.Temperature }},
	})

	return view
}
