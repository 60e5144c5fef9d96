package netdef

// Canonical definition of the microarray segmenter: a small convolutional
// network which classifies each pixel window as inside or outside a spot.
// The train and test sets are separate LMDB databases built from the
// simulated ground truth images.
func SegmenterNet() *NetDef {
	msra := &Filler{Type: MsraFill, VarianceNorm: Average}
	zero := &Filler{Type: ConstantFill}
	return &NetDef{
		Name: "MicroarraySegmenter",
		Layers: []*Layer{
			dataLayer("train_data", "data/train_lmdb", 64, Train),
			dataLayer("test_data", "data/test_lmdb", 100, Test),
			{
				Name: "conv1", Type: Convolution,
				Bottom: []string{"data"}, Top: []string{"conv1"},
				BlobsLR: []float64{1, 2}, WeightDecay: []float64{1, 0},
				Convolution: &ConvolutionParam{
					NumOutput: 32, KernelSize: 5, Stride: 1,
					WeightFiller: msra, BiasFiller: zero,
				},
			},
			relu("relu1", "conv1"),
			pool("pool1", "conv1", "pool1"),
			{
				Name: "conv2", Type: Convolution,
				Bottom: []string{"pool1"}, Top: []string{"conv2"},
				BlobsLR: []float64{1, 2}, WeightDecay: []float64{1, 0},
				Convolution: &ConvolutionParam{
					NumOutput: 48, KernelSize: 5, Stride: 1,
					WeightFiller: msra, BiasFiller: zero,
				},
			},
			relu("relu2", "conv2"),
			pool("pool2", "conv2", "pool2"),
			{
				Name: "ip1", Type: InnerProduct,
				Bottom: []string{"pool2"}, Top: []string{"ip1"},
				BlobsLR: []float64{1, 2}, WeightDecay: []float64{1, 0},
				InnerProduct: &InnerProductParam{
					NumOutput: 500, WeightFiller: msra, BiasFiller: zero,
				},
			},
			relu("relu3", "ip1"),
			{
				Name: "drop1", Type: Dropout,
				Bottom: []string{"ip1"}, Top: []string{"ip1"},
				Dropout: &DropoutParam{DropoutRatio: 0.5},
			},
			{
				Name: "ip2", Type: InnerProduct,
				Bottom: []string{"ip1"}, Top: []string{"ip2"},
				BlobsLR: []float64{1, 2}, WeightDecay: []float64{1, 0},
				InnerProduct: &InnerProductParam{
					NumOutput: 2, WeightFiller: msra, BiasFiller: zero,
				},
			},
			{
				Name: "accuracy", Type: Accuracy,
				Bottom:  []string{"ip2", "label"},
				Top:     []string{"accuracy"},
				Include: []NetStateRule{{Phase: Test}},
			},
			{
				Name: "loss", Type: SoftmaxLoss,
				Bottom: []string{"ip2", "label"},
				Top:    []string{"loss"},
			},
		},
	}
}

// Solver settings matching the segmenter net.
func SegmenterSolver() SolverParam {
	return SolverParam{
		Net:            "microseg.prototxt",
		TestIter:       100,
		TestInterval:   500,
		BaseLR:         0.01,
		LRPolicy:       InvLR,
		Gamma:          0.0001,
		Power:          0.75,
		Momentum:       0.9,
		WeightDecay:    0.0005,
		MaxIter:        10000,
		Display:        100,
		Snapshot:       5000,
		SnapshotPrefix: "snapshots/microseg",
		Mode:           GPUMode,
	}
}

// SegmenterWindow is the pixel window each sample covers: one greyscale
// channel around the centre pixel being classified.
var SegmenterWindow = Dims{Channels: 1, Height: 61, Width: 61}

func dataLayer(name, source string, batch int, phase Phase) *Layer {
	return &Layer{
		Name: name, Type: Data,
		Top:     []string{"data", "label"},
		Include: []NetStateRule{{Phase: phase}},
		Data:    &DataParam{Source: source, Backend: LMDB, BatchSize: batch},
	}
}

func relu(name, blob string) *Layer {
	return &Layer{
		Name: name, Type: Relu,
		Bottom: []string{blob}, Top: []string{blob},
	}
}

func pool(name, bottom, top string) *Layer {
	return &Layer{
		Name: name, Type: Pooling,
		Bottom:  []string{bottom}, Top: []string{top},
		Pooling: &PoolingParam{Pool: MaxPool, KernelSize: 2, Stride: 2},
	}
}
