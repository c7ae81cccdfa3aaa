package dialog

import (
	"math"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultGaugeWidth = 60
	maxGaugeWidth     = 100
)

type (
	gaugeMsg     int
	gaugeDoneMsg struct{}
)

type gaugeModel struct {
	backtitle string
	title     string
	bar       progress.Model
	percent   int
	done      bool
	// called from the program goroutine on Ctrl+C
	interrupt func()
}

func newGaugeModel(backtitle, title string, interrupt func()) gaugeModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultGaugeWidth
	return gaugeModel{
		backtitle: backtitle,
		title:     title,
		bar:       bar,
		interrupt: interrupt,
	}
}

func (m gaugeModel) Init() tea.Cmd {
	return nil
}

func (m gaugeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.interrupt != nil {
				m.interrupt()
			}
			m.done = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), maxGaugeWidth)

	case gaugeMsg:
		m.percent = int(msg)

	case gaugeDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m gaugeModel) View() string {
	if m.done {
		return ""
	}
	if m.percent < 0 {
		return frame(m.backtitle, m.title, m.bar.ViewAs(0), detailStyle.Render("size unknown"))
	}
	return frame(m.backtitle, m.title, m.bar.ViewAs(float64(m.percent)/100))
}

// terminalGauge drives a gaugeModel running in its own program.
type terminalGauge struct {
	send   func(tea.Msg)
	last   int
	once   sync.Once
	exited chan struct{}
}

func newTerminalGauge(send func(tea.Msg), exited chan struct{}) *terminalGauge {
	return &terminalGauge{send: send, last: math.MinInt, exited: exited}
}

func (g *terminalGauge) Update(percent int) {
	if percent == g.last {
		return
	}
	g.last = percent
	g.send(gaugeMsg(percent))
}

func (g *terminalGauge) Done() {
	g.once.Do(func() {
		g.send(gaugeDoneMsg{})
		<-g.exited
	})
}
