package netdef

import (
	"strings"
	"testing"
)

// each case mutates a copy of the canonical net and must fail validation
func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(n *NetDef)
		expect string
	}{
		{"no name", func(n *NetDef) { n.Name = "" }, "name is required"},
		{"duplicate layer", func(n *NetDef) { n.Layers[3].Name = "conv1" }, "duplicate layer name"},
		{"bad type", func(n *NetDef) { n.Layers[2].Type = "CONV" }, "unknown layer type"},
		{"bad phase", func(n *NetDef) { n.Layers[0].Include[0].Phase = "VALID" }, "unknown phase"},
		{"bad batch", func(n *NetDef) { n.Layers[0].Data.BatchSize = 0 }, "batch_size must be >= 1"},
		{"no source", func(n *NetDef) { n.Layers[0].Data.Source = "" }, "source is required"},
		{"bad backend", func(n *NetDef) { n.Layers[0].Data.Backend = "HDF5" }, "unknown backend"},
		{"bad kernel", func(n *NetDef) { n.Layers[2].Convolution.KernelSize = 0 }, "kernel_size must be >= 1"},
		{"bad output", func(n *NetDef) { n.Layers[2].Convolution.NumOutput = -3 }, "num_output must be >= 1"},
		{"bad filler", func(n *NetDef) { n.Layers[2].Convolution.WeightFiller.Type = "uniform" }, "unknown filler type"},
		{"bad norm", func(n *NetDef) { n.Layers[2].Convolution.BiasFiller.VarianceNorm = Average },
			"variance_norm not valid"},
		{"bad pool", func(n *NetDef) { n.Layers[4].Pooling.Pool = "MIN" }, "unknown pool method"},
		{"bad ratio", func(n *NetDef) { n.Layers[10].Dropout.DropoutRatio = 1.5 }, "dropout_ratio must be in [0,1]"},
		{"wrong block", func(n *NetDef) { n.Layers[4].Dropout = &DropoutParam{DropoutRatio: 0.5} },
			"DROPOUT param block on POOLING layer"},
		{"missing block", func(n *NetDef) { n.Layers[4].Pooling = nil }, "missing pooling_param"},
		{"in-place conv", func(n *NetDef) { n.Layers[2].Top[0] = "data" }, "in-place top"},
		{"lr on relu", func(n *NetDef) { n.Layers[3].BlobsLR = []float64{1} }, "no parameters"},
		{"negative lr", func(n *NetDef) { n.Layers[2].BlobsLR = []float64{-1, 2} }, "blobs_lr must be >= 0"},
		{"lr length", func(n *NetDef) { n.Layers[2].BlobsLR = []float64{1, 2, 3} }, "at most 2 multipliers"},
		{"dangling bottom", func(n *NetDef) { n.Layers[5].Bottom[0] = "pool3" },
			`bottom "pool3" does not reference an earlier top`},
		{"overwrite blob", func(n *NetDef) { n.Layers[5].Top[0] = "conv1" }, "overwrites an existing blob"},
		{"loss arity", func(n *NetDef) { n.Layers[13].Bottom = []string{"ip2"} }, "expect 2 bottom blobs"},
		{"no loss", func(n *NetDef) { n.Layers[13].Include = []NetStateRule{{Phase: Test}} },
			"expect exactly 1 loss layer"},
	}
	for _, tc := range cases {
		net := SegmenterNet()
		tc.mutate(net)
		err := net.Validate()
		if err == nil {
			t.Errorf("%s: expect validation error", tc.name)
		} else if !strings.Contains(err.Error(), tc.expect) {
			t.Errorf("%s: got %q expect %q", tc.name, err, tc.expect)
		}
	}
}

// layers without include rules belong to both graphs
func TestInPhase(t *testing.T) {
	l := &Layer{Name: "relu1", Type: Relu, Bottom: []string{"x"}, Top: []string{"x"}}
	if !l.InPhase(Train) || !l.InPhase(Test) {
		t.Error("layer with no include rules should be in every phase")
	}
	l.Include = []NetStateRule{{Phase: Test}}
	if l.InPhase(Train) {
		t.Error("TEST only layer included in train phase")
	}
	if !l.InPhase(Test) {
		t.Error("TEST only layer missing from test phase")
	}
}
