package automation

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted timeline of control changes over one simulation.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Seed        int64          `yaml:"seed"`
	Particles   int            `yaml:"particles"`
	SaveAs      string         `yaml:"save_as"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep holds the controls for a stretch of ticks. Unset fields keep
// the value from the previous step.
type ScenarioStep struct {
	Ticks             int                `yaml:"ticks"`
	Paused            *bool              `yaml:"paused"`
	ShowMagnetosphere *bool              `yaml:"show_magnetosphere"`
	ShowFieldLines    *bool              `yaml:"show_field_lines"`
	ShowSputtering    *bool              `yaml:"show_sputtering"`
	WindSpeed         *float64           `yaml:"wind_speed"`
	CME               *bool              `yaml:"cme"`
	Camera            *dynamo.CameraMode `yaml:"camera"`
}

func (st ScenarioStep) Apply(c dynamo.Control) dynamo.Control {
	if st.Paused != nil {
		c.Paused = *st.Paused
	}
	if st.ShowMagnetosphere != nil {
		c.ShowMagnetosphere = *st.ShowMagnetosphere
	}
	if st.ShowFieldLines != nil {
		c.ShowFieldLines = *st.ShowFieldLines
	}
	if st.ShowSputtering != nil {
		c.ShowSputtering = *st.ShowSputtering
	}
	if st.WindSpeed != nil {
		c.WindSpeed = *st.WindSpeed
	}
	if st.CME != nil {
		c.CME = *st.CME
	}
	if st.Camera != nil {
		c.Camera = *st.Camera
	}
	return c.Clamp()
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// TotalTicks is the length of the whole timeline.
func (s *Scenario) TotalTicks() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Ticks
	}
	return n
}

// Timeline replays a scenario's controls, one per tick.
type Timeline struct {
	controls []dynamo.Control
	bounds   []int
	tick     int
}

func NewTimeline(s *Scenario, base dynamo.Control) *Timeline {
	tl := &Timeline{}
	c := base.Clamp()
	end := 0
	for _, st := range s.Steps {
		c = st.Apply(c)
		end += st.Ticks
		tl.controls = append(tl.controls, c)
		tl.bounds = append(tl.bounds, end)
	}
	return tl
}

// Control returns the control for the current tick and moves on. Past the
// end the last step's control holds.
func (tl *Timeline) Control() dynamo.Control {
	c := tl.At(tl.tick)
	tl.tick++
	return c
}

// At returns the control in effect at tick i.
func (tl *Timeline) At(i int) dynamo.Control {
	for k, end := range tl.bounds {
		if i < end {
			return tl.controls[k]
		}
	}
	return tl.controls[len(tl.controls)-1]
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Control dynamo.Control
	Stats   []dynamo.Stats
	Summary metrics.Summary
}

// RunScenario executes all steps on a single continuous simulation.
func RunScenario(ctx context.Context, scenario *Scenario, opts sim.Options, observers ...sim.Observer) ([]StepResult, error) {
	if scenario.Seed != 0 {
		opts.Seed = scenario.Seed
	}
	if scenario.Particles > 0 {
		opts.Particles = scenario.Particles
	}

	s, err := sim.New(opts)
	if err != nil {
		return nil, err
	}

	tl := NewTimeline(scenario, dynamo.DefaultControl())
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Printf("scenario %s: step %d/%d (%d ticks)", scenario.Name, i+1, len(scenario.Steps), step.Ticks)

		stats, err := s.Advance(ctx, step.Ticks, tl, observers...)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{
			Control: tl.controls[i],
			Stats:   stats,
			Summary: metrics.Summarize(stats),
		})
	}

	return results, nil
}

// WindSweep runs one fresh simulation per wind speed between Min and Max.
type WindSweep struct {
	Min, Max float64
	NumSteps int
	Ticks    int
	CME      bool
}

// SweepResult holds the summary for one wind speed.
type SweepResult struct {
	WindSpeed float64
	Summary   metrics.Summary
}

// RunSweep executes a wind speed sweep with identical seeds.
func RunSweep(ctx context.Context, sweep WindSweep, opts sim.Options) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		ctrl := dynamo.DefaultControl()
		ctrl.WindSpeed = sweep.Min + float64(i)*step
		ctrl.CME = sweep.CME
		ctrl = ctrl.Clamp()

		s, err := sim.New(opts)
		if err != nil {
			return nil, err
		}
		stats, err := s.Advance(ctx, sweep.Ticks, sim.Fixed(ctrl))
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{WindSpeed: ctrl.WindSpeed, Summary: metrics.Summarize(stats)})
	}

	return results, nil
}
