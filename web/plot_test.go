package web

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

var widthAttr = regexp.MustCompile(`width="([0-9.]+)`)

func TestPlotCanvasSize(t *testing.T) {
	p := &PlotPage{model: &Model{Solver: netdef.SegmenterSolver()}}
	svg := string(p.lrPlot(700, 400))
	m := widthAttr.FindStringSubmatch(svg)
	if m == nil {
		t.Fatalf("no width attribute in plot output: %.80s", svg)
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		t.Fatal(err)
	}
	if w < 300 {
		t.Errorf("canvas width %g: expect full size drawing area", w)
	}
}
