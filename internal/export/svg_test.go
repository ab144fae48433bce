package export

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/viz"
)

func TestCanvasToSVG_Nil(t *testing.T) {
	if got := CanvasToSVG(nil, viz.PaletteScene, 2); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestCanvasToSVG_ColorsByLayer(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0, viz.LayerProton)
	c.Set(7, 7, viz.LayerAlpha)

	svg := CanvasToSVG(c, viz.PaletteScene, 2)

	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	for _, l := range []viz.Layer{viz.LayerProton, viz.LayerAlpha} {
		want := `fill="` + string(viz.PaletteScene.Color(l)) + `"`
		if !strings.Contains(svg, want) {
			t.Errorf("missing group %s", want)
		}
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected dimensions in %q", svg[:120])
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("single point should produce nothing")
	}
	svg := SeriesToSVG([]float64{0, 100, 50}, 100, 50, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments: %s", svg)
	}
}

func TestStatsToSVG_Constant(t *testing.T) {
	stats := []dynamo.Stats{{ParticlesHitting: 300}, {ParticlesHitting: 300}}
	if svg := StatsToSVG(stats, metrics.Flux, 60, 20, "#fff"); !strings.Contains(svg, "<path") {
		t.Error("flat series should still plot")
	}
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	c := viz.NewCanvas(2, 1)
	c.Set(1, 1, viz.LayerPlanet)

	path, err := WriteSnapshot(dir, c, viz.PaletteMinimal, time.Unix(0, 42))
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "frame_42.svg") {
		t.Errorf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<circle") {
		t.Error("snapshot has no dots")
	}
}
