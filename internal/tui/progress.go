package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/physics"
)

const historyLen = 120

type stepMsg struct {
	t     float64
	omega [2]float64
}

type doneMsg struct{ err error }

// Live is a dynamo.Observer that forwards the spin state to a running
// program at most once per interval.
type Live struct {
	send     func(tea.Msg)
	interval time.Duration
	last     time.Time
}

func (l *Live) OnStep(x dynamo.State, t float64) {
	now := time.Now()
	if now.Sub(l.last) < l.interval {
		return
	}
	l.last = now
	msg := stepMsg{t: t}
	copy(msg.omega[:], x)
	l.send(msg)
}

type model struct {
	title     string
	tau0, end float64

	t       float64
	periods [2][]float64 // days
	started time.Time
	elapsed time.Duration

	done   bool
	err    error
	cancel context.CancelFunc
	width  int
}

func newModel(title string, tau0, end float64, cancel context.CancelFunc) model {
	return model{title: title, tau0: tau0, end: end, t: tau0, started: time.Now(), cancel: cancel, width: 80}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case stepMsg:
		m.t = msg.t
		m.elapsed = time.Since(m.started)
		for i, w := range msg.omega {
			if w <= 0 {
				continue
			}
			m.periods[i] = append(m.periods[i], 2*math.Pi/w/physics.Day)
			if len(m.periods[i]) > historyLen {
				m.periods[i] = m.periods[i][1:]
			}
		}
	case doneMsg:
		m.done = true
		m.err = msg.err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	}
	return m, nil
}

func (m model) progress() float64 {
	if m.end <= m.tau0 {
		return 1
	}
	return math.Max(0, math.Min(1, (m.t-m.tau0)/(m.end-m.tau0)))
}

func (m model) View() string {
	var b strings.Builder

	icon, status := green.Render("●"), green.Render("integrating")
	switch {
	case m.done && m.err != nil:
		icon, status = yellow.Render("○"), yellow.Render(m.err.Error())
	case m.done:
		icon, status = cyan.Render("●"), cyan.Render("done")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", icon, cyan.Render(m.title), status))

	barWidth := 36
	filled := int(m.progress() * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar,
		dim.Render(fmt.Sprintf("%.3f/%.2f Gyr", m.t, m.end)),
		dim.Render(m.elapsed.Round(time.Millisecond).String())))

	sparkWidth := max(min(m.width-30, 48), 12)
	for i, ps := range m.periods {
		if len(ps) == 0 {
			continue
		}
		label := fmt.Sprintf("P%d", i+1)
		b.WriteString(fmt.Sprintf("   %s %s  %s\n",
			dim.Render(label),
			white.Render(fmt.Sprintf("%7.2f d", ps[len(ps)-1])),
			magenta.Render(Sparkline(ps, sparkWidth))))
	}

	b.WriteString("\n" + dim.Render("   q stop") + "\n")
	return b.String()
}

// Run shows a progress view while work integrates. work must register obs
// on its simulation and honour ctx, which is cancelled when the user quits.
// Run returns once work has returned.
func Run(ctx context.Context, title string, tau0, end float64, work func(ctx context.Context, obs dynamo.Observer) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, tau0, end, cancel))
	live := &Live{send: p.Send, interval: time.Second / 30}

	finished := make(chan error, 1)
	go func() {
		err := work(ctx, live)
		finished <- err
		p.Send(doneMsg{err: err})
	}()

	final, err := p.Run()
	cancel()
	werr := <-finished
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return werr
}
