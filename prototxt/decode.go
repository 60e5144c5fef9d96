package prototxt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

// DecodeNet maps a parsed root message onto a network definition.
// Unknown fields are an error: the file must round-trip field-for-field.
func DecodeNet(msg *Message) (*netdef.NetDef, error) {
	net := new(netdef.NetDef)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "name":
			net.Name = d.str(f)
		case "layers":
			if f.Msg == nil {
				return nil, errAt(f, "layers must be a block")
			}
			l, err := decodeLayer(f.Msg)
			if err != nil {
				return nil, err
			}
			net.Layers = append(net.Layers, l)
		default:
			return nil, errAt(f, "unknown field %q", f.Name)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return net, nil
}

func decodeLayer(msg *Message) (*netdef.Layer, error) {
	l := new(netdef.Layer)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "name":
			l.Name = d.str(f)
		case "type":
			l.Type = netdef.LayerType(d.token(f))
		case "bottom":
			l.Bottom = append(l.Bottom, d.str(f))
		case "top":
			l.Top = append(l.Top, d.str(f))
		case "include":
			rule, err := decodeInclude(f)
			if err != nil {
				return nil, err
			}
			l.Include = append(l.Include, rule)
		case "blobs_lr":
			l.BlobsLR = append(l.BlobsLR, d.float(f))
		case "weight_decay":
			l.WeightDecay = append(l.WeightDecay, d.float(f))
		case "data_param":
			decodeBlock(&d, f, &l.Data, decodeDataParam)
		case "convolution_param":
			decodeBlock(&d, f, &l.Convolution, decodeConvolutionParam)
		case "pooling_param":
			decodeBlock(&d, f, &l.Pooling, decodePoolingParam)
		case "inner_product_param":
			decodeBlock(&d, f, &l.InnerProduct, decodeInnerProductParam)
		case "dropout_param":
			decodeBlock(&d, f, &l.Dropout, decodeDropoutParam)
		default:
			return nil, errAt(f, "unknown layer field %q", f.Name)
		}
	}
	return l, d.err
}

func decodeInclude(f *Field) (netdef.NetStateRule, error) {
	var rule netdef.NetStateRule
	if f.Msg == nil {
		return rule, errAt(f, "include must be a block")
	}
	d := decoder{}
	for _, sub := range f.Msg.Fields {
		if sub.Name != "phase" {
			return rule, errAt(sub, "unknown include field %q", sub.Name)
		}
		rule.Phase = netdef.Phase(d.token(sub))
	}
	return rule, d.err
}

func decodeDataParam(msg *Message) (*netdef.DataParam, error) {
	p := new(netdef.DataParam)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "source":
			p.Source = d.str(f)
		case "backend":
			p.Backend = netdef.Backend(d.token(f))
		case "batch_size":
			p.BatchSize = d.int(f)
		default:
			return nil, errAt(f, "unknown data_param field %q", f.Name)
		}
	}
	return p, d.err
}

func decodeConvolutionParam(msg *Message) (*netdef.ConvolutionParam, error) {
	p := new(netdef.ConvolutionParam)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "num_output":
			p.NumOutput = d.int(f)
		case "kernel_size":
			p.KernelSize = d.int(f)
		case "stride":
			p.Stride = d.int(f)
		case "weight_filler":
			decodeBlock(&d, f, &p.WeightFiller, decodeFiller)
		case "bias_filler":
			decodeBlock(&d, f, &p.BiasFiller, decodeFiller)
		default:
			return nil, errAt(f, "unknown convolution_param field %q", f.Name)
		}
	}
	return p, d.err
}

func decodePoolingParam(msg *Message) (*netdef.PoolingParam, error) {
	p := new(netdef.PoolingParam)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "pool":
			p.Pool = netdef.PoolMethod(d.token(f))
		case "kernel_size":
			p.KernelSize = d.int(f)
		case "stride":
			p.Stride = d.int(f)
		default:
			return nil, errAt(f, "unknown pooling_param field %q", f.Name)
		}
	}
	return p, d.err
}

func decodeInnerProductParam(msg *Message) (*netdef.InnerProductParam, error) {
	p := new(netdef.InnerProductParam)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "num_output":
			p.NumOutput = d.int(f)
		case "weight_filler":
			decodeBlock(&d, f, &p.WeightFiller, decodeFiller)
		case "bias_filler":
			decodeBlock(&d, f, &p.BiasFiller, decodeFiller)
		default:
			return nil, errAt(f, "unknown inner_product_param field %q", f.Name)
		}
	}
	return p, d.err
}

func decodeDropoutParam(msg *Message) (*netdef.DropoutParam, error) {
	p := new(netdef.DropoutParam)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "dropout_ratio":
			p.DropoutRatio = d.float(f)
		default:
			return nil, errAt(f, "unknown dropout_param field %q", f.Name)
		}
	}
	return p, d.err
}

func decodeFiller(msg *Message) (*netdef.Filler, error) {
	p := new(netdef.Filler)
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "type":
			p.Type = netdef.FillerType(d.str(f))
		case "value":
			p.Value = d.float(f)
		case "std":
			p.Std = d.float(f)
		case "variance_norm":
			p.VarianceNorm = netdef.VarianceNorm(d.token(f))
		default:
			return nil, errAt(f, "unknown filler field %q", f.Name)
		}
	}
	return p, d.err
}

// DecodeSolver maps a parsed root message onto the solver settings.
func DecodeSolver(msg *Message) (netdef.SolverParam, error) {
	var s netdef.SolverParam
	d := decoder{}
	for _, f := range msg.Fields {
		switch f.Name {
		case "net":
			s.Net = d.str(f)
		case "test_iter":
			s.TestIter = d.int(f)
		case "test_interval":
			s.TestInterval = d.int(f)
		case "base_lr":
			s.BaseLR = d.float(f)
		case "lr_policy":
			s.LRPolicy = netdef.LRPolicy(d.str(f))
		case "gamma":
			s.Gamma = d.float(f)
		case "power":
			s.Power = d.float(f)
		case "stepsize":
			s.StepSize = d.int(f)
		case "momentum":
			s.Momentum = d.float(f)
		case "weight_decay":
			s.WeightDecay = d.float(f)
		case "max_iter":
			s.MaxIter = d.int(f)
		case "display":
			s.Display = d.int(f)
		case "snapshot":
			s.Snapshot = d.int(f)
		case "snapshot_prefix":
			s.SnapshotPrefix = d.str(f)
		case "solver_mode":
			s.Mode = netdef.SolverMode(d.token(f))
		default:
			return s, errAt(f, "unknown solver field %q", f.Name)
		}
	}
	return s, d.err
}

// decoder accumulates the first scalar conversion error so field handlers
// can stay on one line each.
type decoder struct {
	err error
}

func (d *decoder) fail(f *Field, format string, args ...interface{}) {
	if d.err == nil {
		d.err = errAt(f, format, args...)
	}
}

// quoted string value
func (d *decoder) str(f *Field) string {
	if f.Msg != nil {
		d.fail(f, "%s: expect a scalar value", f.Name)
		return ""
	}
	s, err := strconv.Unquote(f.Value)
	if err != nil {
		d.fail(f, "%s: expect a quoted string: got %s", f.Name, f.Value)
		return ""
	}
	return s
}

// bare enum token value
func (d *decoder) token(f *Field) string {
	if f.Msg != nil {
		d.fail(f, "%s: expect a scalar value", f.Name)
		return ""
	}
	if strings.HasPrefix(f.Value, `"`) {
		d.fail(f, "%s: expect a bare token: got %s", f.Name, f.Value)
		return ""
	}
	return f.Value
}

func (d *decoder) int(f *Field) int {
	if f.Msg != nil {
		d.fail(f, "%s: expect a scalar value", f.Name)
		return 0
	}
	v, err := strconv.Atoi(f.Value)
	if err != nil {
		d.fail(f, "%s: expect an integer: got %s", f.Name, f.Value)
	}
	return v
}

func (d *decoder) float(f *Field) float64 {
	if f.Msg != nil {
		d.fail(f, "%s: expect a scalar value", f.Name)
		return 0
	}
	v, err := strconv.ParseFloat(f.Value, 64)
	if err != nil {
		d.fail(f, "%s: expect a number: got %s", f.Name, f.Value)
	}
	return v
}

// decodeBlock decodes a nested message into the target pointer, rejecting
// duplicate blocks.
func decodeBlock[T any](d *decoder, f *Field, dst **T, decode func(*Message) (*T, error)) {
	if f.Msg == nil {
		d.fail(f, "%s must be a block", f.Name)
		return
	}
	if *dst != nil {
		d.fail(f, "duplicate %s block", f.Name)
		return
	}
	p, err := decode(f.Msg)
	if err != nil && d.err == nil {
		d.err = err
	}
	*dst = p
}

func errAt(f *Field, format string, args ...interface{}) error {
	return &ParseError{Line: f.Line, Message: fmt.Sprintf(format, args...)}
}
