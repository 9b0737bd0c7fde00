// Package viz renders paths in the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

const maxPlotPoints = 2000

// PlotComponent renders one coordinate of a path as an ASCII chart. Long
// paths are decimated to keep the chart legible.
func PlotComponent(path *stochastic.Path, k int, caption string) string {
	data := decimate(path.Component(k), maxPlotPoints)
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// PlotPath renders every component, capped at six charts.
func PlotPath(path *stochastic.Path) string {
	dim := path.Dim()
	if dim > 6 {
		dim = 6
	}

	var b strings.Builder
	for k := 0; k < dim; k++ {
		b.WriteString(PlotComponent(path, k, fmt.Sprintf("y%d vs time", k)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func decimate(data []float64, max int) []float64 {
	if len(data) <= max {
		return data
	}
	stride := len(data) / max
	out := make([]float64, 0, max)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}
	return out
}
