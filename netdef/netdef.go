// Package netdef defines the declarative network description for the
// microarray segmenter: the layer topology, the per-layer parameter blocks
// and the solver settings which an external training framework executes.
package netdef

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

var DataDir = defaultDataDir()

func defaultDataDir() string {
	if dir := os.Getenv("MICROSEG_DATA"); dir != "" {
		return dir
	}
	return "."
}

// Phase selects which execution graph a layer belongs to.
type Phase string

const (
	Train Phase = "TRAIN"
	Test  Phase = "TEST"
)

var Phases = []Phase{Train, Test}

// LayerType is the enum token identifying the layer implementation.
type LayerType string

const (
	Data         LayerType = "DATA"
	Convolution  LayerType = "CONVOLUTION"
	Relu         LayerType = "RELU"
	Pooling      LayerType = "POOLING"
	InnerProduct LayerType = "INNER_PRODUCT"
	Dropout      LayerType = "DROPOUT"
	Accuracy     LayerType = "ACCURACY"
	SoftmaxLoss  LayerType = "SOFTMAX_LOSS"
)

var layerTypes = []LayerType{Data, Convolution, Relu, Pooling, InnerProduct,
	Dropout, Accuracy, SoftmaxLoss}

// PoolMethod is the pooling operation token.
type PoolMethod string

const (
	MaxPool        PoolMethod = "MAX"
	AvePool        PoolMethod = "AVE"
	StochasticPool PoolMethod = "STOCHASTIC"
)

// Backend is the key value store holding the (image, label) records.
type Backend string

const (
	LMDB    Backend = "LMDB"
	LevelDB Backend = "LEVELDB"
)

// FillerType is the parameter initialisation strategy token.
type FillerType string

const (
	ConstantFill FillerType = "constant"
	XavierFill   FillerType = "xavier"
	MsraFill     FillerType = "msra"
	GaussianFill FillerType = "gaussian"
)

// VarianceNorm selects the fan normalisation for msra and xavier fillers.
type VarianceNorm string

const (
	FanIn   VarianceNorm = "FAN_IN"
	FanOut  VarianceNorm = "FAN_OUT"
	Average VarianceNorm = "AVERAGE"
)

// NetDef is the top level network description: a name and an ordered list
// of layers. The structure is read once at job start and never mutated.
type NetDef struct {
	Name   string   `json:"name"`
	Layers []*Layer `json:"layers"`
}

// Layer is one named stage of the network graph. Bottom and Top name the
// blobs it consumes and produces. At most one parameter block may be set
// and it must match the layer type.
type Layer struct {
	Name         string             `json:"name"`
	Type         LayerType          `json:"type"`
	Bottom       []string           `json:"bottom,omitempty"`
	Top          []string           `json:"top,omitempty"`
	Include      []NetStateRule     `json:"include,omitempty"`
	BlobsLR      []float64          `json:"blobs_lr,omitempty"`
	WeightDecay  []float64          `json:"weight_decay,omitempty"`
	Data         *DataParam         `json:"data_param,omitempty"`
	Convolution  *ConvolutionParam  `json:"convolution_param,omitempty"`
	Pooling      *PoolingParam      `json:"pooling_param,omitempty"`
	InnerProduct *InnerProductParam `json:"inner_product_param,omitempty"`
	Dropout      *DropoutParam      `json:"dropout_param,omitempty"`
}

// NetStateRule restricts a layer to the given phase.
type NetStateRule struct {
	Phase Phase `json:"phase"`
}

// DataParam declares the backing store for a data layer.
type DataParam struct {
	Source    string  `json:"source"`
	Backend   Backend `json:"backend"`
	BatchSize int     `json:"batch_size"`
}

// ConvolutionParam declares a convolution layer.
type ConvolutionParam struct {
	NumOutput    int     `json:"num_output"`
	KernelSize   int     `json:"kernel_size"`
	Stride       int     `json:"stride,omitempty"`
	WeightFiller *Filler `json:"weight_filler,omitempty"`
	BiasFiller   *Filler `json:"bias_filler,omitempty"`
}

// PoolingParam declares a pooling layer.
type PoolingParam struct {
	Pool       PoolMethod `json:"pool"`
	KernelSize int        `json:"kernel_size"`
	Stride     int        `json:"stride,omitempty"`
}

// InnerProductParam declares a fully connected layer.
type InnerProductParam struct {
	NumOutput    int     `json:"num_output"`
	WeightFiller *Filler `json:"weight_filler,omitempty"`
	BiasFiller   *Filler `json:"bias_filler,omitempty"`
}

// DropoutParam declares a dropout layer.
type DropoutParam struct {
	DropoutRatio float64 `json:"dropout_ratio"`
}

// Filler is the initialisation strategy for a learnable parameter tensor.
// Value is the fill constant for constant fillers, Std the standard
// deviation for gaussian fillers.
type Filler struct {
	Type         FillerType   `json:"type"`
	Value        float64      `json:"value,omitempty"`
	Std          float64      `json:"std,omitempty"`
	VarianceNorm VarianceNorm `json:"variance_norm,omitempty"`
}

// InPhase reports whether the layer is included in the given phase.
// A layer with no include rules belongs to every phase.
func (l *Layer) InPhase(p Phase) bool {
	if len(l.Include) == 0 {
		return true
	}
	for _, rule := range l.Include {
		if rule.Phase == p {
			return true
		}
	}
	return false
}

// InPlace reports whether the layer overwrites its input blob.
func (l *Layer) InPlace() bool {
	return len(l.Bottom) == 1 && len(l.Top) == 1 && l.Bottom[0] == l.Top[0]
}

// Learnable reports whether the layer carries weight and bias tensors.
func (l *Layer) Learnable() bool {
	return l.Type == Convolution || l.Type == InnerProduct
}

// EffectiveLR gives the learning rate for parameter tensor i after applying
// the blobs_lr multiplier. A missing multiplier defaults to 1.
func (l *Layer) EffectiveLR(base float64, i int) float64 {
	if i < len(l.BlobsLR) {
		return base * l.BlobsLR[i]
	}
	return base
}

func (l *Layer) String() string {
	s := fmt.Sprintf("%-8s %-14s %v => %v", l.Name, l.Type, l.Bottom, l.Top)
	for _, rule := range l.Include {
		s += fmt.Sprintf(" [%s]", rule.Phase)
	}
	return s
}

// Get the layer with the given name, or nil if not defined.
func (n *NetDef) Layer(name string) *Layer {
	for _, l := range n.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Print network description
func (n *NetDef) String() string {
	str := []string{fmt.Sprintf("== Net %s ==", n.Name)}
	for i, l := range n.Layers {
		str = append(str, fmt.Sprintf("%2d: %s", i, l))
	}
	return strings.Join(str, "\n")
}

// Load network definition from json file under DataDir
func LoadNet(name string) (n *NetDef, err error) {
	filePath := path.Join(DataDir, name)
	var f *os.File
	if f, err = os.Open(filePath); err != nil {
		return
	}
	defer f.Close()
	fmt.Println("loading network definition from", name)
	n = new(NetDef)
	err = json.NewDecoder(f).Decode(n)
	return
}

// Save definition to json file under DataDir
func (n *NetDef) Save(name string) error {
	filePath := path.Join(DataDir, "."+name)
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	fmt.Println("saving network definition to", name)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(n); err != nil {
		f.Close()
		return err
	}
	f.Close()
	return os.Rename(filePath, path.Join(DataDir, name))
}

// Check if file exists under DataDir
func FileExists(name string) bool {
	_, err := os.Stat(path.Join(DataDir, name))
	return err == nil
}

// Exit in case of error
func CheckErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
