package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/fraclocus/internal/viz"
)

// Mirrors the braille sub-pixel layout: 2 columns by 4 rows per cell.
var svgDotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasSVG renders a braille canvas as an SVG document, one filled circle
// per lit sub-pixel. scale is the sub-pixel pitch in SVG units.
func CanvasSVG(c *viz.Canvas, scale float64) string {
	if c == nil {
		return ""
	}

	width := float64(c.Width) * scale * 2
	height := float64(c.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#4fd6be">
`, width, height, width, height))

	radius := scale * 0.4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Rune(row, col)
			if r <= 0x2800 {
				continue
			}
			pattern := r - 0x2800
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&svgDotBits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf("<circle cx=%q cy=%q r=%q/>\n",
							trimFloat(cx), trimFloat(cy), trimFloat(radius)))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteSceneSVG renders the fracture locus scene from a fixed camera onto a
// braille canvas and writes it as an SVG snapshot.
func WriteSceneSVG(path string, scene *viz.Scene, cols, rows int) error {
	canvas := viz.NewCanvas(cols, rows)
	viz.Render(canvas, scene.Composite(), viz.NewCamera())
	return os.WriteFile(path, []byte(CanvasSVG(canvas, 4)), 0o644)
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
