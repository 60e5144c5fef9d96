package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

const lrSamples = 200

type PlotPage struct {
	*Templates
	Page  string
	model *Model
}

// Base data for handler functions to plot the declared schedules and sizes
func NewPlotPage(t *Templates, m *Model) *PlotPage {
	p := &PlotPage{model: m, Page: "lr"}
	p.Templates = t.Select("/plot")
	p.AddOption(Link{Name: "schedule", Url: "/plot/lr"})
	p.AddOption(Link{Name: "sizes", Url: "/plot/size"})
	return p
}

// Handler function for the plot template
func (p *PlotPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.model.Lock()
		defer p.model.Unlock()
		if page := mux.Vars(r)["page"]; page != "" {
			p.Page = page
		}
		p.Select("/plot")
		if err := p.ExecuteTemplate(w, "plot", p); err != nil {
			logError(w, err)
		}
	}
}

func (p *PlotPage) Heading() string {
	if p.Page == "size" {
		return "blob sizes per layer"
	}
	return "learning rate schedule: " + string(p.model.Solver.LRPolicy)
}

// Plot returns the inline SVG for the selected page.
func (p *PlotPage) Plot(width, height int) template.HTML {
	if p.Page == "size" {
		return p.sizePlot(width, height)
	}
	return p.lrPlot(width, height)
}

// learning rate over the declared max_iter range
func (p *PlotPage) lrPlot(width, height int) template.HTML {
	s := p.model.Solver
	xs := make([]float64, lrSamples)
	floats.Span(xs, 0, float64(s.MaxIter))
	var pts plotter.XYs
	for _, x := range xs {
		pts = append(pts, plotter.XY{X: x, Y: s.LearningRate(int(x))})
	}
	plt := newPlot()
	plt.X.Label.Text = "iteration"
	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Println("plot error:", err)
		return ""
	}
	line.Width = 2
	line.Color = plotutil.Color(0)
	plt.Add(line)
	plt.Legend.Add("base_lr x schedule ", line)
	return writePlot(plt, width, height)
}

// output blob elements per layer for both phase graphs
func (p *PlotPage) sizePlot(width, height int) template.HTML {
	plt := newPlot()
	plt.X.Label.Text = "layer"
	for i, phase := range netdef.Phases {
		info, err := p.model.Net.Infer(phase, p.model.Window)
		if err != nil {
			log.Println("plot error:", err)
			return ""
		}
		var pts plotter.XYs
		for j, li := range info {
			pts = append(pts, plotter.XY{X: float64(j), Y: float64(li.Out.Size())})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			log.Println("plot error:", err)
			return ""
		}
		line.Width = 2
		line.Color = plotutil.Color(i)
		plt.Add(line)
		plt.Legend.Add(string(phase)+" elements ", line)
	}
	return writePlot(plt, width, height)
}

func newPlot() *plot.Plot {
	p, err := plot.New()
	if err != nil {
		log.Fatal("Plot error: ", err)
	}
	fontSmall := newFont(10)
	fontMedium := newFont(12)
	p.X.Padding, p.Y.Padding = 0, 0
	p.X.Tick.Label.Font = fontSmall
	p.Y.Tick.Label.Font = fontSmall
	p.X.Label.Font = fontMedium
	p.Legend.Top = true
	p.Legend.Font = fontMedium
	p.Add(plotter.NewGrid())
	return p
}

func writePlot(p *plot.Plot, w, h int) template.HTML {
	var buf bytes.Buffer
	writer, err := p.WriterTo(vg.Inch*vg.Length(w)/vgsvg.DPI, vg.Inch*vg.Length(h)/vgsvg.DPI, "svg")
	if err != nil {
		log.Fatal("Error writing plot: ", err)
	}
	writer.WriteTo(&buf)
	return template.HTML(buf.String())
}

func newFont(size vg.Length) vg.Font {
	font, err := vg.MakeFont("Helvetica", size)
	if err != nil {
		log.Fatal("Plot: failed loading font", err)
	}
	return font
}
