package prototxt

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

// EncodeNet writes the definition in canonical text form: fields in
// declaration order, two space indent, strings quoted and enums bare.
func EncodeNet(n *netdef.NetDef) string {
	w := newWriter()
	w.str("name", n.Name)
	for _, l := range n.Layers {
		w.open("layers")
		w.str("name", l.Name)
		w.token("type", string(l.Type))
		for _, b := range l.Bottom {
			w.str("bottom", b)
		}
		for _, t := range l.Top {
			w.str("top", t)
		}
		if l.Data != nil {
			w.open("data_param")
			w.str("source", l.Data.Source)
			w.token("backend", string(l.Data.Backend))
			w.int("batch_size", l.Data.BatchSize)
			w.close()
		}
		if l.Convolution != nil {
			w.open("convolution_param")
			w.int("num_output", l.Convolution.NumOutput)
			w.int("kernel_size", l.Convolution.KernelSize)
			if l.Convolution.Stride != 0 {
				w.int("stride", l.Convolution.Stride)
			}
			w.filler("weight_filler", l.Convolution.WeightFiller)
			w.filler("bias_filler", l.Convolution.BiasFiller)
			w.close()
		}
		if l.Pooling != nil {
			w.open("pooling_param")
			w.token("pool", string(l.Pooling.Pool))
			w.int("kernel_size", l.Pooling.KernelSize)
			if l.Pooling.Stride != 0 {
				w.int("stride", l.Pooling.Stride)
			}
			w.close()
		}
		if l.InnerProduct != nil {
			w.open("inner_product_param")
			w.int("num_output", l.InnerProduct.NumOutput)
			w.filler("weight_filler", l.InnerProduct.WeightFiller)
			w.filler("bias_filler", l.InnerProduct.BiasFiller)
			w.close()
		}
		if l.Dropout != nil {
			w.open("dropout_param")
			w.float("dropout_ratio", l.Dropout.DropoutRatio)
			w.close()
		}
		for _, v := range l.BlobsLR {
			w.float("blobs_lr", v)
		}
		for _, v := range l.WeightDecay {
			w.float("weight_decay", v)
		}
		for _, rule := range l.Include {
			w.open("include")
			w.token("phase", string(rule.Phase))
			w.close()
		}
		w.close()
	}
	return w.String()
}

// EncodeSolver writes the solver settings in canonical text form.
// Zero valued optional fields are omitted.
func EncodeSolver(s netdef.SolverParam) string {
	w := newWriter()
	w.str("net", s.Net)
	if s.TestIter != 0 {
		w.int("test_iter", s.TestIter)
	}
	if s.TestInterval != 0 {
		w.int("test_interval", s.TestInterval)
	}
	w.float("base_lr", s.BaseLR)
	w.float("momentum", s.Momentum)
	w.float("weight_decay", s.WeightDecay)
	w.str("lr_policy", string(s.LRPolicy))
	if s.Gamma != 0 {
		w.float("gamma", s.Gamma)
	}
	if s.Power != 0 {
		w.float("power", s.Power)
	}
	if s.StepSize != 0 {
		w.int("stepsize", s.StepSize)
	}
	if s.Display != 0 {
		w.int("display", s.Display)
	}
	w.int("max_iter", s.MaxIter)
	if s.Snapshot != 0 {
		w.int("snapshot", s.Snapshot)
	}
	if s.SnapshotPrefix != "" {
		w.str("snapshot_prefix", s.SnapshotPrefix)
	}
	w.token("solver_mode", string(s.Mode))
	return w.String()
}

// ParseNet parses file contents into a network definition.
func ParseNet(contents string) (*netdef.NetDef, error) {
	msg, err := Parse(contents)
	if err != nil {
		return nil, err
	}
	return DecodeNet(msg)
}

// ParseSolver parses file contents into solver settings.
func ParseSolver(contents string) (netdef.SolverParam, error) {
	msg, err := Parse(contents)
	if err != nil {
		return netdef.SolverParam{}, err
	}
	return DecodeSolver(msg)
}

// ReadNetFile loads and decodes a definition file.
func ReadNetFile(path string) (*netdef.NetDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := ParseNet(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	return n, nil
}

// WriteNetFile encodes and saves a definition file.
func WriteNetFile(path string, n *netdef.NetDef) error {
	return os.WriteFile(path, []byte(EncodeNet(n)), 0644)
}

// ReadSolverFile loads and decodes a solver file.
func ReadSolverFile(path string) (netdef.SolverParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return netdef.SolverParam{}, err
	}
	s, err := ParseSolver(string(data))
	if err != nil {
		return s, fmt.Errorf("%s: %s", path, err)
	}
	return s, nil
}

// WriteSolverFile encodes and saves a solver file.
func WriteSolverFile(path string, s netdef.SolverParam) error {
	return os.WriteFile(path, []byte(EncodeSolver(s)), 0644)
}

type writer struct {
	sb     strings.Builder
	indent int
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) String() string {
	return w.sb.String()
}

func (w *writer) line(s string) {
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *writer) open(name string) {
	w.line(name + " {")
	w.indent++
}

func (w *writer) close() {
	w.indent--
	w.line("}")
}

func (w *writer) str(name, val string) {
	w.line(fmt.Sprintf("%s: %q", name, val))
}

func (w *writer) token(name, val string) {
	w.line(name + ": " + val)
}

func (w *writer) int(name string, val int) {
	w.line(name + ": " + strconv.Itoa(val))
}

func (w *writer) float(name string, val float64) {
	w.line(name + ": " + strconv.FormatFloat(val, 'g', -1, 64))
}

func (w *writer) filler(name string, f *netdef.Filler) {
	if f == nil {
		return
	}
	w.open(name)
	w.str("type", string(f.Type))
	if f.Value != 0 {
		w.float("value", f.Value)
	}
	if f.Std != 0 {
		w.float("std", f.Std)
	}
	if f.VarianceNorm != "" {
		w.token("variance_norm", string(f.VarianceNorm))
	}
	w.close()
}
