// Package viz renders a card session in the terminal.
//
// [Model] is a Bubble Tea program that steps a sim.Session at 60Hz and
// draws the card and its particles on a braille [Canvas]. [PlotTrace]
// charts stored traces with asciigraph.
package viz
