package viz

import "github.com/charmbracelet/lipgloss"

// Palette maps drawing layers to terminal colors.
type Palette struct {
	Name   string
	Colors [layerCount]lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

func (p Palette) Color(l Layer) lipgloss.Color {
	if int(l) >= len(p.Colors) {
		return p.Muted
	}
	return p.Colors[l]
}

// Available palettes
var (
	PaletteScene = Palette{
		Name: "scene",
		Colors: [layerCount]lipgloss.Color{
			LayerStar:         "#ffffff",
			LayerFieldLine:    "#4444ff",
			LayerMagnetopause: "#ff00ff",
			LayerBowShock:     "#00ffff",
			LayerSunGlow:      "#ff8800",
			LayerProton:       "#00aaff",
			LayerAlpha:        "#ff6600",
			LayerCusp:         "#00ffaa",
			LayerSun:          "#ffbb00",
			LayerPlanet:       "#8c8c8c",
		},
		Accent: "#00ffff",
		Muted:  "#666688",
	}

	PaletteRetro = Palette{
		Name: "retro",
		Colors: [layerCount]lipgloss.Color{
			LayerStar:         "#005500",
			LayerFieldLine:    "#00aa00",
			LayerMagnetopause: "#00cc00",
			LayerBowShock:     "#00cc00",
			LayerSunGlow:      "#88ff88",
			LayerProton:       "#00ff00",
			LayerAlpha:        "#ffff00",
			LayerCusp:         "#88ff88",
			LayerSun:          "#ccffcc",
			LayerPlanet:       "#88ff88",
		},
		Accent: "#88ff88",
		Muted:  "#005500",
	}

	PaletteMinimal = Palette{
		Name: "minimal",
		Colors: [layerCount]lipgloss.Color{
			LayerStar:         "#444444",
			LayerFieldLine:    "#888888",
			LayerMagnetopause: "#aaaaaa",
			LayerBowShock:     "#aaaaaa",
			LayerSunGlow:      "#cccccc",
			LayerProton:       "#ffffff",
			LayerAlpha:        "#0088ff",
			LayerCusp:         "#cccccc",
			LayerSun:          "#ffffff",
			LayerPlanet:       "#cccccc",
		},
		Accent: "#0088ff",
		Muted:  "#888888",
	}

	Palettes = []Palette{PaletteScene, PaletteRetro, PaletteMinimal}
)

// GetPalette returns a palette by name, falling back to the scene colors.
func GetPalette(name string) Palette {
	for _, p := range Palettes {
		if p.Name == name {
			return p
		}
	}
	return PaletteScene
}

func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}
