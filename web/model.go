// Package web has a web based viewer for the network definition: per phase
// topology and shape tables, solver settings editor and schedule plots.
package web

import (
	"fmt"
	"log"
	"os"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/prototxt"
	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/stats"
)

// Model is the definition under inspection together with the last load
// state. All page handlers share one instance and take the lock.
type Model struct {
	Name   string
	Dir    string
	Window netdef.Dims
	Net    *netdef.NetDef
	Solver netdef.SolverParam
	Err    error
	loaded time.Time
	conn   *websocket.Conn
	sync.Mutex
}

// NewModel loads the definition and solver files from dir.
func NewModel(dir, name string, window netdef.Dims) (*Model, error) {
	m := &Model{Name: name, Dir: dir, Window: window}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) NetPath() string {
	return path.Join(m.Dir, m.Name+".prototxt")
}

func (m *Model) SolverPath() string {
	return path.Join(m.Dir, m.Name+"_solver.prototxt")
}

// Load parses both files and revalidates. A validation failure is recorded
// on m.Err rather than returned so the pages can display it.
func (m *Model) Load() error {
	net, err := prototxt.ReadNetFile(m.NetPath())
	if err != nil {
		return err
	}
	solver, err := prototxt.ReadSolverFile(m.SolverPath())
	if err != nil {
		return err
	}
	m.Net, m.Solver = net, solver
	m.loaded = time.Now()
	m.Err = m.Net.Validate()
	if m.Err == nil {
		m.Err = m.Solver.Validate()
	}
	return nil
}

// Reload checks the file modification times and reloads when either file
// changed since the last load. Reports whether a reload happened.
func (m *Model) Reload() (bool, error) {
	latest := time.Time{}
	for _, p := range []string{m.NetPath(), m.SolverPath()} {
		fi, err := os.Stat(p)
		if err != nil {
			return false, err
		}
		if fi.ModTime().After(latest) {
			latest = fi.ModTime()
		}
	}
	if !latest.After(m.loaded) {
		return false, nil
	}
	log.Println("definition changed - reloading", m.Name)
	return true, m.Load()
}

// Status line for the page headers.
func (m *Model) Status() string {
	if m.Err != nil {
		return fmt.Sprint("INVALID: ", m.Err)
	}
	return "valid"
}

// LayerRow is one row of the net page table.
type LayerRow struct {
	Index   int
	Name    string
	Type    string
	Bottom  []string
	Top     []string
	InPlace bool
	Out     string
	Params  int
	Memory  string
	LRs     []float64
}

// Summary is the per phase report pushed to the net page and over the
// websocket connection.
type Summary struct {
	Phase       string
	Batch       int
	Rows        []LayerRow
	TotalParams int
	AvgParams   *stats.Average
	Status      string
}

// Summarise runs shape inference for the given phase and builds the table.
func (m *Model) Summarise(phase netdef.Phase) (*Summary, error) {
	s := &Summary{
		Phase:     string(phase),
		Batch:     m.Net.BatchSize(phase),
		AvgParams: new(stats.Average),
		Status:    m.Status(),
	}
	info, err := m.Net.Infer(phase, m.Window)
	if err != nil {
		return nil, err
	}
	for i, li := range info {
		l := li.Layer
		row := LayerRow{
			Index:   i,
			Name:    l.Name,
			Type:    string(l.Type),
			Bottom:  l.Bottom,
			Top:     l.Top,
			InPlace: l.InPlace(),
			Out:     li.Out.String(),
			Params:  li.Params(),
			Memory:  stats.Bytes(li.Out.Size() * max(s.Batch, 1)),
		}
		if l.Learnable() {
			row.LRs = []float64{
				l.EffectiveLR(m.Solver.BaseLR, 0),
				l.EffectiveLR(m.Solver.BaseLR, 1),
			}
			s.AvgParams.Add(float64(li.Params()))
		}
		s.TotalParams += li.Params()
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}
