package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/sim"
)

const scenarioYAML = `name: cme-arrival
description: quiet wind, then a CME front
seed: 5
particles: 200
steps:
  - ticks: 60
    wind_speed: 400
    camera: side
  - ticks: 90
    wind_speed: 9000
    cme: true
  - ticks: 30
    paused: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "cme-arrival" || len(sc.Steps) != 3 {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if sc.TotalTicks() != 180 {
		t.Errorf("total ticks %d", sc.TotalTicks())
	}
	if sc.Steps[0].Camera == nil || *sc.Steps[0].Camera != dynamo.CameraSide {
		t.Error("camera not parsed")
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for empty scenario")
	}
}

func TestTimeline(t *testing.T) {
	sc, _ := LoadScenario(writeScenario(t, scenarioYAML))
	tl := NewTimeline(sc, dynamo.DefaultControl())

	tests := []struct {
		tick   int
		wind   float64
		cme    bool
		paused bool
		camera dynamo.CameraMode
	}{
		{0, 400, false, false, dynamo.CameraSide},
		{59, 400, false, false, dynamo.CameraSide},
		{60, dynamo.MaxWindSpeed, true, false, dynamo.CameraSide},
		{150, dynamo.MaxWindSpeed, true, true, dynamo.CameraSide},
		{5000, dynamo.MaxWindSpeed, true, true, dynamo.CameraSide},
	}
	for _, tt := range tests {
		c := tl.At(tt.tick)
		if c.WindSpeed != tt.wind || c.CME != tt.cme || c.Paused != tt.paused || c.Camera != tt.camera {
			t.Errorf("tick %d: got %+v", tt.tick, c)
		}
	}

	first := tl.Control()
	if first != tl.At(0) {
		t.Error("Control did not start at tick 0")
	}
}

func TestRunScenario(t *testing.T) {
	sc, _ := LoadScenario(writeScenario(t, scenarioYAML))

	var seen int
	results, err := RunScenario(context.Background(), sc, sim.DefaultOptions(),
		sim.ObserverFunc(func(dynamo.Stats) { seen++ }))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 step results, got %d", len(results))
	}
	if len(results[0].Stats) != 2 || len(results[1].Stats) != 3 {
		t.Errorf("unexpected snapshot counts %d/%d", len(results[0].Stats), len(results[1].Stats))
	}
	if len(results[2].Stats) != 0 {
		t.Errorf("paused step published %d snapshots", len(results[2].Stats))
	}
	if seen != 5 {
		t.Errorf("observer saw %d snapshots, want 5", seen)
	}
	for _, st := range results[1].Stats {
		if st.ReconnectionRate < 0.25 {
			t.Errorf("cme step reconnection %.3f", st.ReconnectionRate)
		}
	}
}

func TestRunSweep(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.Particles = 100

	results, err := RunSweep(context.Background(), WindSweep{Min: 250, Max: 750, NumSteps: 3, Ticks: 60}, opts)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	want := []float64{250, 500, 750}
	for i, r := range results {
		if r.WindSpeed != want[i] {
			t.Errorf("step %d wind %.0f, want %.0f", i, r.WindSpeed, want[i])
		}
		if r.Summary.Snapshots != 2 {
			t.Errorf("step %d snapshots %d", i, r.Summary.Snapshots)
		}
	}

	if _, err := RunSweep(context.Background(), WindSweep{NumSteps: 1}, opts); err == nil {
		t.Error("expected error for single-step sweep")
	}
}
