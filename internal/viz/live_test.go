package viz

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/physics"
	"github.com/san-kum/solarwind/internal/scene"
	"github.com/san-kum/solarwind/internal/sim"
)

func TestHandleKey(t *testing.T) {
	tests := []struct {
		key   string
		check func(dynamo.Control) bool
	}{
		{" ", func(c dynamo.Control) bool { return c.Paused }},
		{"m", func(c dynamo.Control) bool { return !c.ShowMagnetosphere }},
		{"f", func(c dynamo.Control) bool { return !c.ShowFieldLines }},
		{"s", func(c dynamo.Control) bool { return !c.ShowSputtering }},
		{"c", func(c dynamo.Control) bool { return c.CME }},
		{"+", func(c dynamo.Control) bool { return c.WindSpeed == 450 }},
		{"-", func(c dynamo.Control) bool { return c.WindSpeed == 350 }},
		{"3", func(c dynamo.Control) bool { return c.Camera == dynamo.CameraTop }},
		{"5", func(c dynamo.Control) bool { return c.Camera == dynamo.CameraMercury }},
	}

	for _, tt := range tests {
		ctrl := sim.NewSharedControl(dynamo.DefaultControl())
		if !HandleKey(ctrl, tt.key) {
			t.Errorf("key %q not handled", tt.key)
			continue
		}
		if !tt.check(ctrl.Control()) {
			t.Errorf("key %q produced %+v", tt.key, ctrl.Control())
		}
	}
}

func TestHandleKey_Unknown(t *testing.T) {
	ctrl := sim.NewSharedControl(dynamo.DefaultControl())
	if HandleKey(ctrl, "z") {
		t.Error("unknown key reported handled")
	}
	if ctrl.Control() != dynamo.DefaultControl() {
		t.Error("unknown key changed the control")
	}
}

func TestHandleKey_WindClamped(t *testing.T) {
	ctrl := sim.NewSharedControl(dynamo.DefaultControl())
	for i := 0; i < 20; i++ {
		HandleKey(ctrl, "+")
	}
	if got := ctrl.Control().WindSpeed; got != dynamo.MaxWindSpeed {
		t.Errorf("wind = %v, want %v", got, dynamo.MaxWindSpeed)
	}
}

func newTestModel(t *testing.T, opts ...Option) (Model, *sim.SharedControl) {
	t.Helper()
	s := newTestSim(t)
	ctrl := sim.NewSharedControl(dynamo.DefaultControl())
	sc := scene.New(physics.DefaultGeometry(), rand.New(rand.NewSource(1)))
	return NewModel(s, ctrl, sc, 60, opts...), ctrl
}

func TestModel_TickAdvances(t *testing.T) {
	m, _ := newTestModel(t)
	var seen int
	m.observers = append(m.observers, sim.ObserverFunc(func(dynamo.Stats) { seen++ }))

	var model tea.Model = m
	for i := 0; i < 30; i++ {
		var cmd tea.Cmd
		model, cmd = model.Update(TickMsg(time.Now()))
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if got := model.(Model).sim.Ticks(); got != 30 {
		t.Errorf("ticks = %d, want 30", got)
	}
	if seen != 1 {
		t.Errorf("observer saw %d snapshots, want 1", seen)
	}
	if !strings.Contains(model.View(), "Ion flux") {
		t.Error("view is missing the flux readout")
	}
}

func TestModel_QuitAndPalette(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if next.(Model).palette != 1 {
		t.Error("t should cycle the palette")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_ControlKeysReachSharedControl(t *testing.T) {
	m, ctrl := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !ctrl.Control().Paused {
		t.Error("space should pause")
	}
}

func TestModel_SputteringReadout(t *testing.T) {
	m, ctrl := newTestModel(t)
	m.Update(TickMsg(time.Now()))
	if !strings.Contains(m.View(), "Sputtered atoms") {
		t.Error("sputtered readout missing")
	}
	HandleKey(ctrl, "s")
	m.Update(TickMsg(time.Now()))
	if strings.Contains(m.View(), "Sputtered atoms") {
		t.Error("sputtered readout shown while disabled")
	}
}

func TestModel_Export(t *testing.T) {
	m, _ := newTestModel(t, WithExport(func(*Canvas) (string, error) { return "/tmp/x.svg", nil }))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if got := next.(Model).status; got != "saved /tmp/x.svg" {
		t.Errorf("status = %q", got)
	}

	m, _ = newTestModel(t, WithExport(func(*Canvas) (string, error) { return "", errors.New("disk full") }))
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if got := next.(Model).status; !strings.Contains(got, "disk full") {
		t.Errorf("status = %q", got)
	}
}

func TestWithPalette(t *testing.T) {
	m, _ := newTestModel(t, WithPalette("minimal"))
	if Palettes[m.palette].Name != "minimal" {
		t.Errorf("palette = %s", Palettes[m.palette].Name)
	}
}
