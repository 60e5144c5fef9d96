package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

type NetPage struct {
	*Templates
	Phase   string
	Summary *Summary
	model   *Model
}

// Base data for handler functions to view the layer topology per phase
func NewNetPage(t *Templates, m *Model) *NetPage {
	p := &NetPage{model: m, Templates: t, Phase: string(netdef.Train)}
	p.AddOption(Link{Name: "train", Url: "/net/TRAIN"})
	p.AddOption(Link{Name: "test", Url: "/net/TEST"})
	return p
}

// Handler function for the net topology table
func (p *NetPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.model.Lock()
		defer p.model.Unlock()
		if phase := mux.Vars(r)["phase"]; phase != "" {
			p.Phase = phase
		}
		p.Select("/net")
		sum, err := p.model.Summarise(netdef.Phase(p.Phase))
		if err != nil {
			logError(w, err)
			return
		}
		p.Summary = sum
		if err := p.ExecuteTemplate(w, "net", p); err != nil {
			logError(w, err)
		}
	}
}

func (p *NetPage) Heading() string {
	return p.model.Net.Name + " [" + p.Phase + "] " + p.model.Status()
}

func (p *NetPage) Blobs() []string {
	return p.model.Net.Blobs(netdef.Phase(p.Phase))
}
