package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot,
// grouped by the layer that colors its cell.
func CanvasToSVG(canvas *viz.Canvas, p viz.Palette, scale float64) string {
	if canvas == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	groups := make(map[viz.Layer]*strings.Builder)
	var order []viz.Layer
	dotRadius := scale * 0.4

	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			l := canvas.Layers[y/4][x/2]
			g, ok := groups[l]
			if !ok {
				g = &strings.Builder{}
				groups[l] = g
				order = append(order, l)
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(g, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	for _, l := range order {
		color := string(p.Color(l))
		if l == viz.LayerNone {
			color = string(p.Muted)
		}
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", color))
		sb.WriteString(groups[l].String())
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values as a polyline scaled to fill the image.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// StatsToSVG plots one field of a stats series.
func StatsToSVG(stats []dynamo.Stats, field func(dynamo.Stats) float64, width, height int, strokeColor string) string {
	values := make([]float64, len(stats))
	for i, st := range stats {
		values[i] = field(st)
	}
	return SeriesToSVG(values, width, height, strokeColor)
}

// WriteSnapshot writes the canvas to dir as a timestamped SVG and returns
// the file path.
func WriteSnapshot(dir string, canvas *viz.Canvas, p viz.Palette, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%d.svg", now.UnixNano()))
	if err := os.WriteFile(path, []byte(CanvasToSVG(canvas, p, 4)), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}
