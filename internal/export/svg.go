// Package export renders card frames and traces as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/viz"
)

const (
	background = "#0a0a0a"
	header     = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d">
<rect width="100%%" height="100%%" fill="%[3]s"/>
`
)

// CanvasToSVG draws every lit braille dot as a circle, scale pixels apart.
func CanvasToSVG(c *viz.Canvas, scale float64, fill string) string {
	if c == nil {
		return ""
	}
	w, h := int(float64(c.Width*2)*scale), int(float64(c.Height*4)*scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, header, w, h, background)
	fmt.Fprintf(&sb, "<g fill=%q>\n", fill)

	bits := [4][2]rune{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}
	radius := scale * 0.4
	for row, cells := range c.Grid {
		for col, r := range cells {
			pattern := r - 0x2800
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&bits[dy][dx] == 0 {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// CardToSVG renders one card pose through the default camera.
func CardToSVG(tr dynamo.Transform, flipped bool, cols, rows int, fill string) string {
	c := viz.NewCanvas(cols, rows)
	s := &viz.Scene{}
	s.AddCard(tr, flipped)
	viz.Render(c, s, viz.NewCamera())
	return CanvasToSVG(c, 4, fill)
}

// TraceToSVG draws values against times as a single polyline with 10%
// padding on each axis.
func TraceToSVG(times, values []float64, width, height int, stroke string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX, rangeX = minX-rangeX*0.1, rangeX*1.2
	minY, rangeY = minY-rangeY*0.1, rangeY*1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, header, width, height, background)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=%q stroke-width=\"1.5\" d=\"", stroke)
	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
