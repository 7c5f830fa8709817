package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/internal/marinelife"
	"github.com/kfk18/ScubaInstructionAgent/internal/models"
	"github.com/kfk18/ScubaInstructionAgent/internal/spots"
)

// Fetcher retrieves the merged hourly forecast for a spot and date.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, day time.Time) (models.ForecastTable, error)
}

// Summarizer produces the marine life summary for a spot and date.
type Summarizer interface {
	Summarize(ctx context.Context, location string, day time.Time) (string, error)
}

// Server renders the dive conditions dashboard.
type Server struct {
	registry   *spots.Registry
	fetcher    Fetcher
	summarizer Summarizer
	state      *State
	mux        *http.ServeMux
	tmpl       *template.Template
}

func NewServer(registry *spots.Registry, fetcher Fetcher, summarizer Summarizer) *Server {
	s := &Server{
		registry:   registry,
		fetcher:    fetcher,
		summarizer: summarizer,
		state:      NewState(),
		mux:        http.NewServeMux(),
		tmpl:       template.Must(template.New("dashboard").Parse(pageTemplate)),
	}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/query", s.handleQuery)
	s.mux.HandleFunc("/health", s.handleHealth)
}

type pageData struct {
	Spots  []string
	Today  string
	Report *reportView
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Spots: s.registry.Names(),
		Today: time.Now().Format("2006-01-02"),
	}
	if report := s.state.Get(); report != nil {
		data.Report = newReportView(report)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
	}
}

// POST /query: runs the forecast fetch and the marine life summary for
// the selected spot and date. The two branches are independent: a failure
// in one is surfaced as a message while the other still renders.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	spot, ok := s.registry.Lookup(r.FormValue("spot"))
	if !ok {
		http.Error(w, "unknown spot", http.StatusBadRequest)
		return
	}

	day, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	report := &models.DiveReport{
		Spot:        spot,
		Date:        day,
		GeneratedAt: time.Now(),
	}

	table, err := s.fetcher.Fetch(ctx, spot.Latitude, spot.Longitude, day)
	if err != nil {
		log.Printf("Forecast fetch failed for %s (%s): %v", spot.Name, day.Format("2006-01-02"), err)
		report.ForecastErr = "Failed to fetch forecast data. Please try again later."
	} else {
		report.Table = table
	}

	bio, err := s.summarizer.Summarize(ctx, spot.Name, day)
	if err != nil {
		log.Printf("Marine life summary failed for %s: %v", spot.Name, err)
		report.BioSummary = marinelife.FallbackText
	} else {
		report.BioSummary = bio
	}

	s.state.Set(report)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.state.Get()
	if s.state.Healthy() {
		w.WriteHeader(http.StatusOK)
		if report == nil {
			fmt.Fprint(w, "OK - no queries yet")
			return
		}
		fmt.Fprintf(w, "OK - last query: %s", report.GeneratedAt.Format("Jan 2 15:04"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Last query failed: %s", report.GeneratedAt.Format("Jan 2 15:04"))
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Dive Conditions Agent</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 900px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .form-box { background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
        .warning { background-color: #FFF3E0; color: #E65100; padding: 10px; border-radius: 8px; margin-bottom: 15px; }
        .error { background-color: #FFEBEE; color: #B71C1C; padding: 10px; border-radius: 8px; margin-bottom: 15px; }
        .metric { display: inline-block; margin: 10px 20px 10px 0; }
        .metric-label { font-weight: bold; color: #666; }
        .metric-value { font-size: 18px; color: #2196F3; }
        .chart-title { font-weight: bold; margin-top: 20px; }
        .legend { font-size: 13px; color: #666; margin-bottom: 5px; }
        .legend span { margin-right: 15px; }
        table { border-collapse: collapse; width: 100%; margin: 15px 0; font-size: 14px; }
        th, td { border: 1px solid #ddd; padding: 6px 8px; text-align: right; }
        th { background-color: #f2f2f2; }
        td:first-child, th:first-child { text-align: left; }
        .bio { background-color: #E8F5E8; padding: 15px; border-radius: 8px; margin-top: 20px; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
        svg { border: 1px solid #eee; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🤿 Dive Conditions Agent</h1>
        <p>Marine and weather forecast plus expected marine life for your dive spot.</p>
    </div>

    <div class="form-box">
        <form method="POST" action="/query">
            <label>Spot:
                <select name="spot">
                    {{range .Spots}}<option value="{{.}}">{{.}}</option>{{end}}
                </select>
            </label>
            <label>Date: <input type="date" name="date" value="{{.Today}}"></label>
            <button type="submit">Get conditions</button>
        </form>
    </div>

    {{with .Report}}
    <h2>🌊 {{.SpotName}} ({{.Date}})</h2>

    {{if .PastDataNotice}}
    <div class="warning">⚠️ Past dates may not be served by the forecast provider.</div>
    {{end}}

    {{if .ForecastErr}}
    <div class="error">{{.ForecastErr}}</div>
    {{else if not .HasTable}}
    <div class="warning">No forecast data available for this date.</div>
    {{else}}

    {{with .Midday}}
    <div>
        <div class="metric"><div class="metric-label">Weather (12:00)</div><div class="metric-value">{{.Weather}}</div></div>
        <div class="metric"><div class="metric-label">Temperature</div><div class="metric-value">{{.Temperature}}</div></div>
        <div class="metric"><div class="metric-label">Wind</div><div class="metric-value">{{.WindSpeed}} ({{.WindDir}})</div></div>
        <div class="metric"><div class="metric-label">Wave height</div><div class="metric-value">{{.WaveHeight}} / {{.WavePeriod}}</div></div>
    </div>
    {{end}}

    {{with .WaveChart}}
    <div class="chart-title">{{.Title}}</div>
    <div class="legend">{{range .Series}}<span style="color:{{.Color}}">■ {{.Label}}</span>{{end}} (range {{.MinY}}–{{.MaxY}})</div>
    <svg viewBox="0 0 640 200" width="640" height="200">
        {{range .Series}}<polyline fill="none" stroke="{{.Color}}" stroke-width="2" points="{{.Points}}"/>{{end}}
    </svg>
    {{end}}

    {{with .WindChart}}
    <div class="chart-title">{{.Title}}</div>
    <div class="legend">{{range .Series}}<span style="color:{{.Color}}">■ {{.Label}}</span>{{end}} (range {{.MinY}}–{{.MaxY}})</div>
    <svg viewBox="0 0 640 200" width="640" height="200">
        {{range .Series}}<polyline fill="none" stroke="{{.Color}}" stroke-width="2" points="{{.Points}}"/>{{end}}
    </svg>
    {{end}}

    <table>
        <tr><th>Hour</th><th>Weather</th><th>Temp (°C)</th><th>Precip (mm)</th><th>Wind (km/h)</th><th>Wind dir (°)</th><th>Wave (m)</th><th>Period (s)</th><th>Swell (m)</th></tr>
        {{range .Rows}}
        <tr><td>{{.Hour}}</td><td>{{.Weather}}</td><td>{{.Temperature}}</td><td>{{.Precipitation}}</td><td>{{.WindSpeed}}</td><td>{{.WindDirection}}</td><td>{{.WaveHeight}}</td><td>{{.WavePeriod}}</td><td>{{.SwellHeight}}</td></tr>
        {{end}}
    </table>
    {{end}}

    <div class="bio">
        <h3>🐠 Marine life expected in month {{.BioMonth}}</h3>
        {{if .BioItems}}
        <ul>
            {{range .BioItems}}<li><strong>{{.Name}}</strong>: {{.Note}}</li>{{end}}
        </ul>
        {{else}}
        <p>{{.BioText}}</p>
        {{end}}
    </div>

    <div class="footer">
        <p>Generated at {{.GeneratedAt}} • Forecast from Open-Meteo, marine life from web search. Always confirm with a local dive shop.</p>
    </div>
    {{end}}
</body>
</html>
`
