package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/experiment"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/viz"
)

const (
	frameRate       = 60
	historyCapacity = 600
	defaultSpeed    = 10
	maxSpeed        = 1000

	roadWindow = 200.0
	roadWidth  = 60
	roadHeight = 6
	plotWidth  = 60
	plotHeight = 8
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Live streams an experiment into a dashboard: road elevation with the
// vehicle, the speed trace and the actuator commands. The simulation runs in
// its own goroutine and blocks while the view is paused.
type Live struct {
	title string
	exp   *experiment.Experiment
	road  scenario.GradeProfile
	total int

	ctx     context.Context
	cancel  context.CancelFunc
	samples chan dynamo.Sample
	done    chan error

	paused   bool
	finished bool
	err      error
	speed    int
	count    int
	last     dynamo.Sample

	velocity []float64
	desired  []float64
}

func NewLive(title string, exp *experiment.Experiment) *Live {
	ctx, cancel := context.WithCancel(context.Background())
	return &Live{
		title:    title,
		exp:      exp,
		road:     exp.Config().Road(),
		total:    exp.Config().SimConfig().Steps() + 1,
		ctx:      ctx,
		cancel:   cancel,
		samples:  make(chan dynamo.Sample, historyCapacity),
		done:     make(chan error, 1),
		speed:    defaultSpeed,
		velocity: make([]float64, 0, historyCapacity),
		desired:  make([]float64, 0, historyCapacity),
	}
}

func (m *Live) Init() tea.Cmd {
	go func() {
		err := m.exp.Stream(m.ctx, func(s dynamo.Sample) bool {
			select {
			case m.samples <- s:
				return true
			case <-m.ctx.Done():
				return false
			}
		})
		m.done <- err
		close(m.samples)
	}()
	return tick()
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			viz.NextTheme()
		}
	case tickMsg:
		if !m.paused && !m.finished {
			m.drain(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// drain consumes up to n samples without blocking.
func (m *Live) drain(n int) {
	for i := 0; i < n; i++ {
		select {
		case s, ok := <-m.samples:
			if !ok {
				m.finished = true
				m.err = <-m.done
				return
			}
			m.record(s)
		default:
			return
		}
	}
}

func (m *Live) record(s dynamo.Sample) {
	m.last = s
	m.count++
	m.velocity = appendCapped(m.velocity, s.Velocity)
	m.desired = appendCapped(m.desired, s.DesiredSpeed)
}

func appendCapped(buf []float64, v float64) []float64 {
	if len(buf) == historyCapacity {
		copy(buf, buf[1:])
		buf = buf[:len(buf)-1]
	}
	return append(buf, v)
}

func (m *Live) Finished() bool { return m.finished }
func (m *Live) Err() error     { return m.err }
func (m *Live) Count() int     { return m.count }

func (m *Live) status() string {
	switch {
	case m.err != nil:
		return viz.BarLow.Render("FAILED: " + m.err.Error())
	case m.finished:
		return viz.StatusDone.Render("DONE")
	case m.paused:
		return viz.StatusPaused.Render("PAUSED")
	default:
		return viz.StatusRunning.Render(fmt.Sprintf("RUNNING x%d", m.speed))
	}
}

func (m *Live) tracking() bool {
	return m.exp.Config().Scenario == "track"
}

func (m *Live) View() string {
	s := m.last
	var b strings.Builder

	b.WriteString(viz.Title.Render(strings.ToUpper(m.title)) + "  " + m.status() + "\n\n")

	x0 := max(0, s.Position-roadWindow/4)
	b.WriteString(viz.Panel.Render(viz.RoadView(m.road, x0, x0+roadWindow, s.Position, roadWidth, roadHeight)) + "\n")

	if len(m.velocity) > 1 {
		var chart string
		if m.tracking() {
			chart = viz.PlotMany([][]float64{m.velocity, m.desired}, []string{"v", "desired"}, "speed (m/s)", plotHeight, plotWidth)
		} else {
			chart = viz.Plot(m.velocity, "speed (m/s)", plotHeight, plotWidth)
		}
		b.WriteString(chart + "\n\n")
	}

	stats := []string{
		viz.Row("time", fmt.Sprintf("%.2f s", s.Time)),
		viz.Row("position", fmt.Sprintf("%.2f m", s.Position)),
		viz.Row("velocity", fmt.Sprintf("%.3f m/s", s.Velocity)),
		viz.Row("accel", fmt.Sprintf("%.3f m/s²", s.Acceleration)),
		viz.Row("engine", fmt.Sprintf("%.1f rad/s", s.EngineSpeed)),
		viz.Row("grade", fmt.Sprintf("%.4f rad", s.Grade)),
	}
	pedals := []string{
		viz.Row("throttle", viz.PedalBar(s.Throttle, 20, false)),
		viz.Row("brake", viz.PedalBar(s.Brake, 20, true)),
		viz.Row("steer", fmt.Sprintf("%+.3f", s.Steer)),
	}
	if m.tracking() {
		pedals = append(pedals, viz.Row("desired", fmt.Sprintf("%.2f m/s", s.DesiredSpeed)))
	}
	b.WriteString(viz.SideBySide(
		viz.Panel.Render(strings.Join(stats, "\n")),
		viz.Panel.Render(strings.Join(pedals, "\n")),
	) + "\n")

	progress := 0.0
	if m.total > 0 {
		progress = float64(m.count) / float64(m.total)
	}
	b.WriteString(viz.ProgressBar(progress, roadWidth) + "\n")
	b.WriteString(viz.KeyHint.Render("space: pause  +/-: speed  t: theme  q: quit"))
	return b.String()
}

// RunLive runs the dashboard until the user quits.
func RunLive(title string, exp *experiment.Experiment) error {
	m := NewLive(title, exp)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	m.cancel()
	return m.err
}
