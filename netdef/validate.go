package netdef

import "fmt"

// Validate checks that the definition is well formed: parameter blocks match
// their layer type, numeric fields are within their domains, every bottom
// reference resolves to a blob produced earlier in the same phase graph and
// each phase ends in exactly one loss layer.
func (n *NetDef) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("net name is required")
	}
	if len(n.Layers) == 0 {
		return fmt.Errorf("net %s: no layers defined", n.Name)
	}
	names := map[string]bool{}
	for _, l := range n.Layers {
		if l.Name == "" {
			return fmt.Errorf("net %s: layer with no name", n.Name)
		}
		if names[l.Name] {
			return fmt.Errorf("duplicate layer name %q", l.Name)
		}
		names[l.Name] = true
		if err := l.check(); err != nil {
			return fmt.Errorf("layer %q: %s", l.Name, err)
		}
	}
	for _, phase := range Phases {
		if err := n.checkGraph(phase); err != nil {
			return fmt.Errorf("%s graph: %s", phase, err)
		}
	}
	return nil
}

// per layer field checks
func (l *Layer) check() error {
	if !validLayerType(l.Type) {
		return fmt.Errorf("unknown layer type %q", l.Type)
	}
	if err := l.checkParamBlock(); err != nil {
		return err
	}
	for _, rule := range l.Include {
		if rule.Phase != Train && rule.Phase != Test {
			return fmt.Errorf("unknown phase %q", rule.Phase)
		}
	}
	if l.InPlace() && l.Type != Relu && l.Type != Dropout {
		return fmt.Errorf("in-place top %q not allowed for %s", l.Top[0], l.Type)
	}
	if !l.Learnable() && (len(l.BlobsLR) > 0 || len(l.WeightDecay) > 0) {
		return fmt.Errorf("blobs_lr set on %s layer with no parameters", l.Type)
	}
	if len(l.BlobsLR) > 2 || len(l.WeightDecay) > 2 {
		return fmt.Errorf("at most 2 multipliers per layer (weights and bias)")
	}
	if len(l.WeightDecay) > 0 && len(l.BlobsLR) > 0 && len(l.WeightDecay) != len(l.BlobsLR) {
		return fmt.Errorf("blobs_lr and weight_decay lengths differ")
	}
	for _, v := range l.BlobsLR {
		if v < 0 {
			return fmt.Errorf("blobs_lr must be >= 0")
		}
	}
	for _, v := range l.WeightDecay {
		if v < 0 {
			return fmt.Errorf("weight_decay must be >= 0")
		}
	}
	switch l.Type {
	case Data:
		return l.checkData()
	case Convolution:
		return l.checkConvolution()
	case Relu:
		return checkArity(l, 1, 1)
	case Pooling:
		return l.checkPooling()
	case InnerProduct:
		return l.checkInnerProduct()
	case Dropout:
		return l.checkDropout()
	case Accuracy, SoftmaxLoss:
		return checkArity(l, 2, 1)
	}
	return nil
}

// exactly one param block, matching the layer type
func (l *Layer) checkParamBlock() error {
	blocks := []struct {
		typ LayerType
		set bool
	}{
		{Data, l.Data != nil},
		{Convolution, l.Convolution != nil},
		{Pooling, l.Pooling != nil},
		{InnerProduct, l.InnerProduct != nil},
		{Dropout, l.Dropout != nil},
	}
	for _, b := range blocks {
		if b.set && b.typ != l.Type {
			return fmt.Errorf("%s param block on %s layer", b.typ, l.Type)
		}
	}
	return nil
}

func (l *Layer) checkData() error {
	if len(l.Bottom) != 0 {
		return fmt.Errorf("data layer cannot have bottom blobs")
	}
	if len(l.Top) < 1 || len(l.Top) > 2 {
		return fmt.Errorf("data layer must have 1 or 2 top blobs")
	}
	p := l.Data
	if p == nil {
		return fmt.Errorf("missing data_param")
	}
	if p.Source == "" {
		return fmt.Errorf("data_param.source is required")
	}
	if p.Backend != LMDB && p.Backend != LevelDB {
		return fmt.Errorf("unknown backend %q", p.Backend)
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1: got %d", p.BatchSize)
	}
	return nil
}

func (l *Layer) checkConvolution() error {
	if err := checkArity(l, 1, 1); err != nil {
		return err
	}
	p := l.Convolution
	if p == nil {
		return fmt.Errorf("missing convolution_param")
	}
	if p.NumOutput < 1 {
		return fmt.Errorf("num_output must be >= 1: got %d", p.NumOutput)
	}
	if p.KernelSize < 1 {
		return fmt.Errorf("kernel_size must be >= 1: got %d", p.KernelSize)
	}
	if p.Stride < 0 {
		return fmt.Errorf("stride cannot be negative: got %d", p.Stride)
	}
	if err := checkFiller(p.WeightFiller); err != nil {
		return fmt.Errorf("weight_filler: %s", err)
	}
	return checkFillerField(p.BiasFiller, "bias_filler")
}

func (l *Layer) checkPooling() error {
	if err := checkArity(l, 1, 1); err != nil {
		return err
	}
	p := l.Pooling
	if p == nil {
		return fmt.Errorf("missing pooling_param")
	}
	if p.Pool != MaxPool && p.Pool != AvePool && p.Pool != StochasticPool {
		return fmt.Errorf("unknown pool method %q", p.Pool)
	}
	if p.KernelSize < 1 {
		return fmt.Errorf("kernel_size must be >= 1: got %d", p.KernelSize)
	}
	if p.Stride < 0 {
		return fmt.Errorf("stride cannot be negative: got %d", p.Stride)
	}
	return nil
}

func (l *Layer) checkInnerProduct() error {
	if err := checkArity(l, 1, 1); err != nil {
		return err
	}
	p := l.InnerProduct
	if p == nil {
		return fmt.Errorf("missing inner_product_param")
	}
	if p.NumOutput < 1 {
		return fmt.Errorf("num_output must be >= 1: got %d", p.NumOutput)
	}
	if err := checkFiller(p.WeightFiller); err != nil {
		return fmt.Errorf("weight_filler: %s", err)
	}
	return checkFillerField(p.BiasFiller, "bias_filler")
}

func (l *Layer) checkDropout() error {
	if err := checkArity(l, 1, 1); err != nil {
		return err
	}
	p := l.Dropout
	if p == nil {
		return fmt.Errorf("missing dropout_param")
	}
	if p.DropoutRatio < 0 || p.DropoutRatio > 1 {
		return fmt.Errorf("dropout_ratio must be in [0,1]: got %g", p.DropoutRatio)
	}
	return nil
}

func checkArity(l *Layer, nBottom, nTop int) error {
	if len(l.Bottom) != nBottom {
		return fmt.Errorf("expect %d bottom blobs: got %d", nBottom, len(l.Bottom))
	}
	if len(l.Top) != nTop {
		return fmt.Errorf("expect %d top blobs: got %d", nTop, len(l.Top))
	}
	return nil
}

func checkFiller(f *Filler) error {
	if f == nil {
		return nil
	}
	switch f.Type {
	case ConstantFill, GaussianFill:
		if f.VarianceNorm != "" {
			return fmt.Errorf("variance_norm not valid for %s filler", f.Type)
		}
	case XavierFill, MsraFill:
		switch f.VarianceNorm {
		case "", FanIn, FanOut, Average:
		default:
			return fmt.Errorf("unknown variance_norm %q", f.VarianceNorm)
		}
	default:
		return fmt.Errorf("unknown filler type %q", f.Type)
	}
	if f.Std < 0 {
		return fmt.Errorf("std must be >= 0")
	}
	return nil
}

func checkFillerField(f *Filler, name string) error {
	if err := checkFiller(f); err != nil {
		return fmt.Errorf("%s: %s", name, err)
	}
	return nil
}

// checkGraph walks the layers included in the given phase and checks that
// every bottom reference resolves to a previously produced top, that blobs
// are only overwritten in place and that the graph has one data layer and
// one loss layer.
func (n *NetDef) checkGraph(phase Phase) error {
	blobs := map[string]bool{}
	nData, nLoss := 0, 0
	for _, l := range n.Layers {
		if !l.InPhase(phase) {
			continue
		}
		switch l.Type {
		case Data:
			nData++
		case SoftmaxLoss:
			nLoss++
		}
		for _, b := range l.Bottom {
			if !blobs[b] {
				return fmt.Errorf("layer %q: bottom %q does not reference an earlier top", l.Name, b)
			}
		}
		for _, t := range l.Top {
			if blobs[t] && !l.InPlace() {
				return fmt.Errorf("layer %q: top %q overwrites an existing blob", l.Name, t)
			}
			blobs[t] = true
		}
	}
	if nData == 0 {
		return fmt.Errorf("no data layer")
	}
	if nData > 1 {
		return fmt.Errorf("multiple data layers")
	}
	if nLoss != 1 {
		return fmt.Errorf("expect exactly 1 loss layer: got %d", nLoss)
	}
	return nil
}

func validLayerType(t LayerType) bool {
	for _, typ := range layerTypes {
		if t == typ {
			return true
		}
	}
	return false
}
