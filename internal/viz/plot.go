package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// PlotOptions sizes a trace plot. Zero values let asciigraph pick.
type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

// PlotTrace renders one or more equally sampled series as an ASCII chart.
func PlotTrace(series [][]float64, opts PlotOptions) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("viz: nothing to plot")
	}
	for i, s := range series {
		if len(s) == 0 {
			return "", fmt.Errorf("viz: series %d is empty", i)
		}
	}

	var o []asciigraph.Option
	if opts.Width > 0 {
		o = append(o, asciigraph.Width(opts.Width))
	}
	if opts.Height > 0 {
		o = append(o, asciigraph.Height(opts.Height))
	}
	if opts.Caption != "" {
		o = append(o, asciigraph.Caption(opts.Caption))
	}
	if len(series) > 1 {
		o = append(o, asciigraph.SeriesColors(plotColors[:min(len(series), len(plotColors))]...))
		return asciigraph.PlotMany(series, o...), nil
	}
	return asciigraph.Plot(series[0], o...), nil
}

var plotColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Blue,
}
