package netdef

import (
	"reflect"
	"testing"
)

func TestSegmenterValid(t *testing.T) {
	net := SegmenterNet()
	if err := net.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := SegmenterSolver().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestPhasePartition(t *testing.T) {
	net := SegmenterNet()
	train := net.ForPhase(Train)
	test := net.ForPhase(Test)
	if len(train) != 12 {
		t.Errorf("got %d train layers expect 12", len(train))
	}
	if len(test) != 13 {
		t.Errorf("got %d test layers expect 13", len(test))
	}
	for _, l := range train {
		if l.Type == Accuracy {
			t.Error("accuracy layer included in train graph")
		}
	}
	if train[0].Name != "train_data" || test[0].Name != "test_data" {
		t.Error("wrong data layer selected per phase")
	}
	if b := net.BatchSize(Train); b != 64 {
		t.Errorf("train batch size %d expect 64", b)
	}
	if b := net.BatchSize(Test); b != 100 {
		t.Errorf("test batch size %d expect 100", b)
	}
}

func TestBlobs(t *testing.T) {
	net := SegmenterNet()
	blobs := net.Blobs(Train)
	expect := []string{"data", "label", "conv1", "pool1", "conv2", "pool2", "ip1", "ip2", "loss"}
	if !reflect.DeepEqual(blobs, expect) {
		t.Errorf("train blobs %v expect %v", blobs, expect)
	}
	prod := net.Producers(Train)
	if prod["conv1"].Name != "conv1" || prod["data"].Name != "train_data" {
		t.Error("wrong blob producers")
	}
	cons := net.Consumers(Test)
	if len(cons["ip2"]) != 2 {
		t.Errorf("ip2 consumers %v expect accuracy and loss", cons["ip2"])
	}
}

func TestEffectiveLR(t *testing.T) {
	net := SegmenterNet()
	conv1 := net.Layer("conv1")
	if conv1 == nil {
		t.Fatal("conv1 layer not found")
	}
	if lr := conv1.EffectiveLR(0.01, 0); lr != 0.01 {
		t.Errorf("weight lr %g expect 0.01", lr)
	}
	if lr := conv1.EffectiveLR(0.01, 1); lr != 0.02 {
		t.Errorf("bias lr %g expect 0.02", lr)
	}
	relu := net.Layer("relu1")
	if !relu.InPlace() {
		t.Error("relu1 should be in-place")
	}
	if lr := relu.EffectiveLR(0.01, 0); lr != 0.01 {
		t.Errorf("default multiplier %g expect 0.01", lr)
	}
}
