package netdef

// ForPhase gives the ordered list of layers included in the given phase.
func (n *NetDef) ForPhase(phase Phase) []*Layer {
	var layers []*Layer
	for _, l := range n.Layers {
		if l.InPhase(phase) {
			layers = append(layers, l)
		}
	}
	return layers
}

// Producers maps each blob in the phase graph to the layer which first
// produces it. In-place layers do not replace the original producer.
func (n *NetDef) Producers(phase Phase) map[string]*Layer {
	prod := map[string]*Layer{}
	for _, l := range n.ForPhase(phase) {
		for _, t := range l.Top {
			if _, ok := prod[t]; !ok {
				prod[t] = l
			}
		}
	}
	return prod
}

// Consumers maps each blob to the layers reading it in the given phase.
func (n *NetDef) Consumers(phase Phase) map[string][]*Layer {
	cons := map[string][]*Layer{}
	for _, l := range n.ForPhase(phase) {
		for _, b := range l.Bottom {
			cons[b] = append(cons[b], l)
		}
	}
	return cons
}

// Blobs lists the blob names of the phase graph in order of first definition.
func (n *NetDef) Blobs(phase Phase) []string {
	var blobs []string
	seen := map[string]bool{}
	for _, l := range n.ForPhase(phase) {
		for _, t := range l.Top {
			if !seen[t] {
				seen[t] = true
				blobs = append(blobs, t)
			}
		}
	}
	return blobs
}

// BatchSize gives the batch size declared by the phase's data layer,
// or 0 if the phase has no data layer.
func (n *NetDef) BatchSize(phase Phase) int {
	for _, l := range n.ForPhase(phase) {
		if l.Type == Data && l.Data != nil {
			return l.Data.BatchSize
		}
	}
	return 0
}
