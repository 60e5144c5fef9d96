package netdef

import "fmt"

// Dims is the shape of one blob, batch dimension excluded.
type Dims struct {
	Channels int
	Height   int
	Width    int
}

// Size gives the number of elements in the blob.
func (d Dims) Size() int {
	return d.Channels * d.Height * d.Width
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Channels, d.Height, d.Width)
}

// LayerInfo describes one layer of a phase graph after shape inference.
type LayerInfo struct {
	Layer   *Layer
	In, Out Dims
	Weights int
	Biases  int
}

// Params gives the total learnable parameter count for the layer.
func (li LayerInfo) Params() int {
	return li.Weights + li.Biases
}

// Infer propagates blob shapes through the phase graph, starting from the
// window dimensions the data layer yields. Convolution output is
// (n-k)/stride+1 per side, pooling rounds up as the external framework
// does, an inner product flattens its input. A stride of 0 defaults to 1.
func (n *NetDef) Infer(phase Phase, window Dims) ([]LayerInfo, error) {
	if window.Channels < 1 || window.Height < 1 || window.Width < 1 {
		return nil, fmt.Errorf("invalid window dimensions %s", window)
	}
	shapes := map[string]Dims{}
	var info []LayerInfo
	for _, l := range n.ForPhase(phase) {
		li := LayerInfo{Layer: l}
		if len(l.Bottom) > 0 {
			var ok bool
			if li.In, ok = shapes[l.Bottom[0]]; !ok {
				return nil, fmt.Errorf("layer %q: no shape for bottom %q", l.Name, l.Bottom[0])
			}
		}
		var err error
		switch l.Type {
		case Data:
			if len(l.Top) == 0 {
				return nil, fmt.Errorf("layer %q: data layer has no top blobs", l.Name)
			}
			li.Out = window
			shapes[l.Top[0]] = window
			if len(l.Top) > 1 {
				// label blob
				shapes[l.Top[1]] = Dims{1, 1, 1}
			}
		case Convolution:
			if l.Convolution == nil {
				return nil, fmt.Errorf("layer %q: missing convolution_param", l.Name)
			}
			li.Out, err = convDims(li.In, l.Convolution.KernelSize, l.Convolution.Stride, l.Convolution.NumOutput)
			li.Weights = l.Convolution.NumOutput * li.In.Channels *
				l.Convolution.KernelSize * l.Convolution.KernelSize
			li.Biases = l.Convolution.NumOutput
		case Pooling:
			if l.Pooling == nil {
				return nil, fmt.Errorf("layer %q: missing pooling_param", l.Name)
			}
			li.Out, err = poolDims(li.In, l.Pooling.KernelSize, l.Pooling.Stride)
		case InnerProduct:
			if l.InnerProduct == nil {
				return nil, fmt.Errorf("layer %q: missing inner_product_param", l.Name)
			}
			li.Out = Dims{l.InnerProduct.NumOutput, 1, 1}
			li.Weights = l.InnerProduct.NumOutput * li.In.Size()
			li.Biases = l.InnerProduct.NumOutput
		case Relu, Dropout:
			li.Out = li.In
		case Accuracy, SoftmaxLoss:
			li.Out = Dims{1, 1, 1}
		}
		if err != nil {
			return nil, fmt.Errorf("layer %q: %s", l.Name, err)
		}
		if l.Type != Data {
			for _, t := range l.Top {
				shapes[t] = li.Out
			}
		}
		info = append(info, li)
	}
	return info, nil
}

func convDims(in Dims, kernel, stride, nOut int) (Dims, error) {
	if stride == 0 {
		stride = 1
	}
	if kernel > in.Height || kernel > in.Width {
		return Dims{}, fmt.Errorf("kernel size %d exceeds input %s", kernel, in)
	}
	return Dims{
		Channels: nOut,
		Height:   (in.Height-kernel)/stride + 1,
		Width:    (in.Width-kernel)/stride + 1,
	}, nil
}

func poolDims(in Dims, kernel, stride int) (Dims, error) {
	if stride == 0 {
		stride = 1
	}
	if kernel > in.Height || kernel > in.Width {
		return Dims{}, fmt.Errorf("kernel size %d exceeds input %s", kernel, in)
	}
	return Dims{
		Channels: in.Channels,
		Height:   ceilDiv(in.Height-kernel, stride) + 1,
		Width:    ceilDiv(in.Width-kernel, stride) + 1,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
