// p13watch is a terminal dashboard for the ground station: a live table
// of look angles and Doppler-corrected frequencies for the configured
// satellites, with the next predicted pass for each.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skytrack/plan13/internal/astrotime"
	"github.com/skytrack/plan13/internal/catalog"
	"github.com/skytrack/plan13/internal/config"
	"github.com/skytrack/plan13/internal/passes"
	"github.com/skytrack/plan13/internal/propagation"
	"github.com/skytrack/plan13/internal/solar"
	"github.com/skytrack/plan13/internal/tle"
	"github.com/skytrack/plan13/internal/transform"
)

// Styles for the dashboard.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	visibleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// TickMsg triggers the once-per-second refresh.
type TickMsg time.Time

// trackRow is one satellite's line in the live table.
type trackRow struct {
	name        string
	azimuth     float64
	elevation   float64
	rangeKm     float64
	rangeRate   float64
	downlinkMHz float64
	orbit       int64
	err         string
}

// passInfo is the next predicted pass for one satellite.
type passInfo struct {
	name  string
	aos   time.Time
	los   time.Time
	maxEl float64
}

type model struct {
	cfg     *config.Config
	obs     *transform.Observer
	tracker *propagation.Tracker

	width  int
	height int
	ready  bool

	now    time.Time
	rows   []trackRow
	sunAz  float64
	sunEl  float64
	next   []passInfo
	status string
}

func newModel(cfg *config.Config, obs *transform.Observer, tracker *propagation.Tracker) model {
	return model{cfg: cfg, obs: obs, tracker: tracker}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.next = m.computePasses()
			m.status = "pass predictions refreshed"
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		m.now = time.Time(msg).UTC()
		m.rows = m.computeRows()
		m.sunAz, m.sunEl = m.computeSun()
		if m.next == nil {
			m.next = m.computePasses()
		}
		return m, tickCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if !m.ready || m.now.IsZero() {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — satellite watch", m.cfg.StationName)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   %s UTC", m.now.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderPasses())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-16s %7s %7s %9s %8s %11s %7s",
		"Satellite", "Az", "El", "Range km", "km/s", "Downlink", "Orbit")
	b.WriteString("  " + headerStyle.Render(header) + "\n")

	for _, r := range m.rows {
		if r.err != "" {
			b.WriteString("  " + errorStyle.Render(fmt.Sprintf("%-16s %s", truncate(r.name, 16), r.err)) + "\n")
			continue
		}

		downlink := "—"
		if r.downlinkMHz > 0 {
			downlink = fmt.Sprintf("%.4f", r.downlinkMHz)
		}
		row := fmt.Sprintf("%-16s %7.2f %7.2f %9.1f %+8.2f %11s %7d",
			truncate(r.name, 16), r.azimuth, r.elevation, r.rangeKm, r.rangeRate, downlink, r.orbit)

		if r.elevation > 0 {
			b.WriteString("  " + visibleStyle.Render(row) + " " + elevationBar(r.elevation))
		} else {
			b.WriteString("  " + rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString("  " + dimStyle.Render("no satellites configured") + "\n")
	}

	sun := fmt.Sprintf("%-16s %7.2f %7.2f %9s %8s %11s %7s",
		"Sun", m.sunAz, m.sunEl, "—", "—", "—", "—")
	if m.sunEl > 0 {
		b.WriteString("  " + visibleStyle.Render(sun) + " " + elevationBar(m.sunEl))
	} else {
		b.WriteString("  " + dimStyle.Render(sun))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderPasses() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Next passes") + "\n")

	if len(m.next) == 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("none within %.0fh", m.cfg.HorizonHours)) + "\n")
		return b.String()
	}

	for _, p := range m.next {
		wait := p.aos.Sub(m.now).Round(time.Second)
		var when string
		switch {
		case wait > 0:
			when = fmt.Sprintf("in %s", formatWait(wait))
		case m.now.Before(p.los):
			when = "in progress"
		default:
			when = "passed"
		}
		line := fmt.Sprintf("%-16s AOS %s  max %4.1f°  %s",
			truncate(p.name, 16), p.aos.Format("15:04:05"), p.maxEl, when)
		if when == "in progress" {
			b.WriteString("  " + visibleStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + rowStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m model) renderFooter() string {
	footer := "  " + dimStyle.Render("q: quit | r: refresh passes")
	if m.status != "" {
		footer += "  " + dimStyle.Render("| "+m.status)
	}
	return footer
}

// computeRows predicts every configured satellite at the current time.
func (m model) computeRows() []trackRow {
	t := astrotime.FromTime(m.now)
	rows := make([]trackRow, 0, len(m.cfg.Satellites))

	for _, name := range m.cfg.Satellites {
		row := trackRow{name: name}
		sat, err := m.tracker.SatelliteByName(name)
		if err != nil {
			row.err = "no elements"
			rows = append(rows, row)
			continue
		}
		st, err := sat.Predict(t)
		if err != nil {
			row.err = "prediction failed"
			rows = append(rows, row)
			continue
		}
		topo, err := st.Topocentric(m.obs)
		if err != nil {
			row.err = "degenerate geometry"
			rows = append(rows, row)
			continue
		}

		row.azimuth = topo.AzimuthDeg
		row.elevation = topo.ElevationDeg
		row.rangeKm = topo.RangeKm
		row.rangeRate = topo.RangeRateKmS
		row.orbit = st.OrbitNumber
		if down := downlinkFor(m.cfg, sat); down > 0 {
			row.downlinkMHz = propagation.Doppler(down, topo.RangeRateKmS, propagation.Downlink)
		}
		rows = append(rows, row)
	}
	return rows
}

// computeSun resolves the Sun's look angles for the station.
func (m model) computeSun() (azDeg, elDeg float64) {
	topo, err := solar.Predict(astrotime.FromTime(m.now)).Topocentric(m.obs)
	if err != nil {
		return 0, -90
	}
	return topo.AzimuthDeg, topo.ElevationDeg
}

// computePasses finds the next pass per satellite, soonest first.
func (m model) computePasses() []passInfo {
	start := astrotime.FromTime(time.Now().UTC())

	var out []passInfo
	for _, name := range m.cfg.Satellites {
		sat, err := m.tracker.SatelliteByName(name)
		if err != nil {
			continue
		}
		found, err := passes.Predict(passes.Request{
			Observer:        m.obs,
			Satellite:       sat,
			Start:           start,
			HorizonHours:    m.cfg.HorizonHours,
			MinElevationDeg: m.cfg.MinElevationDeg,
			MaxPasses:       1,
		})
		if err != nil || len(found) == 0 {
			continue
		}
		out = append(out, passInfo{
			name:  name,
			aos:   found[0].AOS,
			los:   found[0].LOS,
			maxEl: found[0].MaxElevationDeg,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].aos.Before(out[j].aos) })
	return out
}

// elevationBar renders elevation 0-90 as a ten segment bar.
func elevationBar(elevationDeg float64) string {
	const width = 10
	filled := int(elevationDeg / 90 * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style lipgloss.Style
	switch {
	case elevationDeg >= 45:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	case elevationDeg >= 15:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	}
	return "[" + style.Render(bar) + "]"
}

func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%02dm%02ds", m, s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// downlinkFor picks the downlink frequency: config override first, then
// the transponder catalog.
func downlinkFor(cfg *config.Config, sat *propagation.Satellite) float64 {
	if cfg.DownlinkMHz > 0 {
		return cfg.DownlinkMHz
	}
	if tr := catalog.ByCatalogNumber(sat.Elements.CatalogNumber); tr != nil {
		return tr.DownlinkMHz
	}
	if tr := catalog.ByName(sat.Elements.Name); tr != nil {
		return tr.DownlinkMHz
	}
	return 0
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func main() {
	configPath := flag.String("config", "", "station configuration TOML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		os.Exit(1)
	}
	obs, err := cfg.Observer()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building observer:", err)
		os.Exit(1)
	}

	store := tle.NewStore()
	var ds *tle.Dataset
	if cfg.ElementsURL != "" {
		fmt.Fprintln(os.Stderr, "Fetching element sets...")
		ds, err = tle.NewFetcher(cfg.ElementsURL, logger).FetchDataset(context.Background())
	} else {
		ds, err = tle.LoadFile(cfg.ElementsFile, logger)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading elements:", err)
		os.Exit(1)
	}
	store.Set(ds)
	tracker := propagation.NewTracker(store, logger)

	p := tea.NewProgram(newModel(cfg, obs, tracker), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
