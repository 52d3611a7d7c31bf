package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/physics"
)

func omega(days float64) float64 { return 2 * math.Pi / (days * physics.Day) }

func TestModelTracksSteps(t *testing.T) {
	m := newModel("kepler-16", 0.01, 1.01, nil)
	next, _ := m.Update(stepMsg{t: 0.51, omega: [2]float64{omega(10), omega(20)}})
	m = next.(model)

	if math.Abs(m.progress()-0.5) > 1e-12 {
		t.Errorf("progress = %v, want 0.5", m.progress())
	}
	if math.Abs(m.periods[0][0]-10) > 1e-9 || math.Abs(m.periods[1][0]-20) > 1e-9 {
		t.Errorf("periods = %v", m.periods)
	}
	view := m.View()
	for _, want := range []string{"kepler-16", "P1", "P2", "integrating"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelSingleStarHidesSecondary(t *testing.T) {
	m := newModel("sun", 0.01, 1, nil)
	next, _ := m.Update(stepMsg{t: 0.5, omega: [2]float64{omega(5), 0}})
	if strings.Contains(next.(model).View(), "P2") {
		t.Error("secondary shown for a single star")
	}
}

func TestModelHistoryIsBounded(t *testing.T) {
	m := newModel("x", 0, 1, nil)
	var next tea.Model = m
	for i := range historyLen + 10 {
		next, _ = next.Update(stepMsg{t: float64(i) / 200, omega: [2]float64{omega(5), 0}})
	}
	if n := len(next.(model).periods[0]); n != historyLen {
		t.Errorf("history length %d, want %d", n, historyLen)
	}
}

func TestModelQuitCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newModel("x", 0, 1, cancel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if ctx.Err() == nil {
		t.Error("context not cancelled")
	}
	if !errors.Is(next.(model).err, context.Canceled) {
		t.Errorf("err = %v", next.(model).err)
	}
}

func TestModelDone(t *testing.T) {
	m := newModel("x", 0, 1, nil)
	next, cmd := m.Update(doneMsg{})
	if cmd == nil || !next.(model).done {
		t.Fatal("done message should quit")
	}
	if !strings.Contains(next.(model).View(), "done") {
		t.Error("view should report completion")
	}
}

func TestLiveThrottles(t *testing.T) {
	var got []tea.Msg
	l := &Live{send: func(m tea.Msg) { got = append(got, m) }, interval: time.Hour}
	l.OnStep(dynamo.State{1, 2}, 0.1)
	l.OnStep(dynamo.State{1, 2}, 0.2)
	if len(got) != 1 {
		t.Fatalf("sent %d messages, want 1", len(got))
	}
	if msg := got[0].(stepMsg); msg.t != 0.1 || msg.omega != [2]float64{1, 2} {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"empty", nil, 10, ""},
		{"ramp", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 8, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{3, 3, 3}, 3, "▁▁▁"},
		{"downsampled", []float64{0, 0, 7, 7}, 2, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.data, tt.width); got != tt.want {
				t.Errorf("Sparkline = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	out := Fields(Field{"a", 1.5, "AU"}, Field{"lifetime", 10, "Gyr"})
	if !strings.Contains(out, "1.5") || !strings.Contains(out, "Gyr") {
		t.Errorf("unexpected fields output %q", out)
	}
}
