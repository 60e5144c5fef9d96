package web

import (
	"fmt"
	"net/http"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/prototxt"
)

type SolverPage struct {
	*Templates
	Fields []Field
	model  *Model
}

type Field struct {
	Name  string
	Value string
	Error string
}

// Base data for handler functions to view and update the solver settings
func NewSolverPage(t *Templates, m *Model) *SolverPage {
	p := &SolverPage{model: m}
	p.Templates = t.Select("/solver")
	p.AddOption(Link{Name: "save", Url: "/solver/save", Submit: true})
	p.AddOption(Link{Name: "reset", Url: "/solver/reset"})
	p.getFields()
	return p
}

// Handler function for the solver template
func (p *SolverPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.model.Lock()
		defer p.model.Unlock()
		p.Select("/solver")
		if err := p.ExecuteTemplate(w, "solver", p); err != nil {
			logError(w, err)
		}
	}
}

// Handler function for the solver form save action: applies the submitted
// fields, revalidates and writes the solver file.
func (p *SolverPage) Save() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.model.Lock()
		defer p.model.Unlock()
		r.ParseForm()
		haveErrors := false
		solver := p.model.Solver
		for i, fld := range p.Fields {
			val := r.Form.Get(fld.Name)
			p.Fields[i].Value = val
			var err error
			solver, err = solver.SetString(fld.Name, val)
			p.Fields[i].Error = ""
			if err != nil {
				p.Fields[i].Error = "invalid syntax"
				haveErrors = true
			}
		}
		if !haveErrors {
			if err := prototxt.WriteSolverFile(p.model.SolverPath(), solver); err != nil {
				logError(w, err)
				return
			}
			p.model.Solver = solver
			p.model.Err = solver.Validate()
		}
		http.Redirect(w, r, "/solver", http.StatusFound)
	}
}

// Handler function to discard edits and reload from file
func (p *SolverPage) Reset() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.model.Lock()
		defer p.model.Unlock()
		solver, err := prototxt.ReadSolverFile(p.model.SolverPath())
		if err != nil {
			logError(w, err)
			return
		}
		p.model.Solver = solver
		p.getFields()
		http.Redirect(w, r, "/solver", http.StatusFound)
	}
}

func (p *SolverPage) Heading() string {
	return "solver: " + p.model.SolverPath() + " " + p.model.Status()
}

func (p *SolverPage) getFields() {
	p.Fields = p.Fields[:0]
	for _, key := range p.model.Solver.Fields() {
		p.Fields = append(p.Fields, Field{
			Name:  key,
			Value: fmt.Sprint(p.model.Solver.Get(key)),
		})
	}
}
