package prototxt

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

const sample = `name: "MicroarraySegmenter"
layers {
  name: "train_data"
  type: DATA
  top: "data"
  top: "label"
  data_param {
    source: "data/train_lmdb"
    backend: LMDB
    batch_size: 64
  }
  include {
    phase: TRAIN
  }
}
layers {
  name: "conv1"
  type: CONVOLUTION
  bottom: "data"
  top: "conv1"
  convolution_param {
    num_output: 32
    kernel_size: 5
    stride: 1
    weight_filler {
      type: "msra"
      variance_norm: AVERAGE
    }
    bias_filler {
      type: "constant"
    }
  }
  blobs_lr: 1
  blobs_lr: 2
  weight_decay: 1
  weight_decay: 0
}
`

func TestDecodeNet(t *testing.T) {
	net, err := ParseNet(sample)
	if err != nil {
		t.Fatal(err)
	}
	if net.Name != "MicroarraySegmenter" {
		t.Errorf("net name %q", net.Name)
	}
	if len(net.Layers) != 2 {
		t.Fatalf("got %d layers expect 2", len(net.Layers))
	}
	data := net.Layers[0]
	if data.Type != netdef.Data || data.Data == nil {
		t.Fatal("bad data layer", data)
	}
	if data.Data.Backend != netdef.LMDB || data.Data.BatchSize != 64 {
		t.Errorf("data_param %+v", data.Data)
	}
	if !reflect.DeepEqual(data.Top, []string{"data", "label"}) {
		t.Errorf("data tops %v", data.Top)
	}
	if !data.InPhase(netdef.Train) || data.InPhase(netdef.Test) {
		t.Error("train data layer phase rules wrong")
	}
	conv := net.Layers[1]
	if conv.Convolution == nil || conv.Convolution.NumOutput != 32 {
		t.Fatalf("convolution_param %+v", conv.Convolution)
	}
	wf := conv.Convolution.WeightFiller
	if wf == nil || wf.Type != netdef.MsraFill || wf.VarianceNorm != netdef.Average {
		t.Errorf("weight_filler %+v", wf)
	}
	if !reflect.DeepEqual(conv.BlobsLR, []float64{1, 2}) {
		t.Errorf("blobs_lr %v", conv.BlobsLR)
	}
	if !reflect.DeepEqual(conv.WeightDecay, []float64{1, 0}) {
		t.Errorf("weight_decay %v", conv.WeightDecay)
	}
}

func TestNetRoundTrip(t *testing.T) {
	net := netdef.SegmenterNet()
	text := EncodeNet(net)
	parsed, err := ParseNet(text)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parsed, net) {
		t.Errorf("round trip mismatch:\n%s", text)
	}
	// canonical form is stable
	if text2 := EncodeNet(parsed); text2 != text {
		t.Error("re-encoded text differs")
	}
}

func TestSolverRoundTrip(t *testing.T) {
	s := netdef.SegmenterSolver()
	text := EncodeSolver(s)
	parsed, err := ParseSolver(text)
	if err != nil {
		t.Fatal(err)
	}
	if parsed != s {
		t.Errorf("round trip mismatch: got %+v expect %+v", parsed, s)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		code   string
		expect string
	}{
		{"version: 2", "unknown field"},
		{"name: Segmenter", "expect a quoted string"},
		{"layers {\nname: \"d\"\ntype: \"DATA\"\n}", "expect a bare token"},
		{"layers {\nrate: 3\n}", "unknown layer field"},
		{"layers {\ndata_param {\nbatch_size: ten\n}\n}", "expect an integer"},
		{"layers {\ndropout_param {\ndropout_ratio: high\n}\n}", "expect a number"},
		{"layers {\ninclude {\nstage: \"x\"\n}\n}", "unknown include field"},
		{"layers {\ndata_param {\n}\ndata_param {\n}\n}", "duplicate data_param"},
		{"layers {\ndata_param: 3\n}", "data_param must be a block"},
		{"name {\n}", "expect a scalar value"},
	}
	for i, tc := range cases {
		_, err := ParseNet(tc.code)
		if err == nil {
			t.Errorf("case %d: expect decode error", i)
		} else if !strings.Contains(err.Error(), tc.expect) {
			t.Errorf("case %d: got %q expect %q", i, err, tc.expect)
		}
	}
	if _, err := ParseSolver("turbo: 1"); err == nil ||
		!strings.Contains(err.Error(), "unknown solver field") {
		t.Errorf("solver: got %v", err)
	}
}
