package viz

import (
	"fmt"
	"io"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

const (
	clearScreen = "\033[2J\033[H"
	liveWindow  = 160
)

// LiveRenderer is a simulator Observer that redraws a rolling window of the
// first component as the path is generated, rate-limited to frameRate
// frames per second.
type LiveRenderer struct {
	w         io.Writer
	process   string
	frameRate int
	lastFrame time.Time
	history   []float64
}

func NewLiveRenderer(w io.Writer, process string, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		w:         w,
		process:   process,
		frameRate: frameRate,
		history:   make([]float64, 0, liveWindow),
	}
}

func (r *LiveRenderer) OnStep(x stochastic.State, t float64) {
	if len(r.history) == liveWindow {
		copy(r.history, r.history[1:])
		r.history = r.history[:liveWindow-1]
	}
	r.history = append(r.history, x[0])

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	graph := asciigraph.Plot(r.history,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s  t=%.3f  y0=%+.4f", r.process, t, x[0])),
	)
	fmt.Fprint(r.w, clearScreen, graph, "\n")
}
