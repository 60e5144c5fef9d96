package netdef

import (
	"math"
	"strings"
	"testing"
)

func TestLearningRate(t *testing.T) {
	s := SolverParam{BaseLR: 0.1, LRPolicy: FixedLR}
	if lr := s.LearningRate(5000); lr != 0.1 {
		t.Errorf("fixed lr %g expect 0.1", lr)
	}
	s = SolverParam{BaseLR: 0.1, LRPolicy: StepLR, Gamma: 0.5, StepSize: 10}
	for _, tc := range []struct {
		iter int
		lr   float64
	}{{0, 0.1}, {9, 0.1}, {10, 0.05}, {25, 0.025}} {
		if lr := s.LearningRate(tc.iter); math.Abs(lr-tc.lr) > 1e-12 {
			t.Errorf("step lr at %d: %g expect %g", tc.iter, lr, tc.lr)
		}
	}
	// invalid settings still evaluate: the viewer plots unvalidated files
	s = SolverParam{BaseLR: 0.1, LRPolicy: StepLR, Gamma: 0.5}
	if lr := s.LearningRate(5); lr != 0.1 {
		t.Errorf("step lr without stepsize: %g expect base", lr)
	}
	s = SolverParam{BaseLR: 0.01, LRPolicy: InvLR, Gamma: 0.0001, Power: 0.75}
	if lr := s.LearningRate(0); lr != 0.01 {
		t.Errorf("inv lr at 0: %g expect base", lr)
	}
	if lr := s.LearningRate(10000); lr >= 0.01 {
		t.Errorf("inv lr should decay: got %g", lr)
	}
	s = SolverParam{BaseLR: 1, LRPolicy: ExpLR, Gamma: 0.99}
	if lr := s.LearningRate(2); math.Abs(lr-0.9801) > 1e-12 {
		t.Errorf("exp lr %g expect 0.9801", lr)
	}
}

func TestSolverValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *SolverParam)
		expect string
	}{
		{"no net", func(s *SolverParam) { s.Net = "" }, "net is required"},
		{"bad lr", func(s *SolverParam) { s.BaseLR = 0 }, "base_lr must be > 0"},
		{"bad iter", func(s *SolverParam) { s.MaxIter = 0 }, "max_iter must be >= 1"},
		{"bad momentum", func(s *SolverParam) { s.Momentum = 1 }, "momentum must be in [0,1)"},
		{"bad policy", func(s *SolverParam) { s.LRPolicy = "poly" }, "unknown lr_policy"},
		{"inv needs power", func(s *SolverParam) { s.Power = 0 }, "inv policy needs"},
		{"step needs stepsize", func(s *SolverParam) { s.LRPolicy = StepLR; s.StepSize = 0 }, "stepsize"},
		{"bad mode", func(s *SolverParam) { s.Mode = "TPU" }, "unknown solver_mode"},
	}
	for _, tc := range cases {
		s := SegmenterSolver()
		tc.mutate(&s)
		err := s.Validate()
		if err == nil {
			t.Errorf("%s: expect validation error", tc.name)
		} else if !strings.Contains(err.Error(), tc.expect) {
			t.Errorf("%s: got %q expect %q", tc.name, err, tc.expect)
		}
	}
}

func TestSolverFields(t *testing.T) {
	s := SegmenterSolver()
	if got := s.Get("BaseLR"); got != 0.01 {
		t.Errorf("Get BaseLR %v expect 0.01", got)
	}
	s2, err := s.SetString("MaxIter", "20000")
	if err != nil {
		t.Fatal(err)
	}
	if s2.MaxIter != 20000 {
		t.Errorf("MaxIter %d expect 20000", s2.MaxIter)
	}
	if s.MaxIter != 10000 {
		t.Error("SetString should not mutate the receiver")
	}
	if _, err = s.SetString("BaseLR", "fast"); err == nil {
		t.Error("expect parse error setting BaseLR")
	}
	s2, err = s.SetString("LRPolicy", "step")
	if err != nil || s2.LRPolicy != StepLR {
		t.Errorf("SetString LRPolicy: %v %v", s2.LRPolicy, err)
	}
	fields := s.Fields()
	if len(fields) != 15 || fields[0] != "Net" {
		t.Errorf("fields %v", fields)
	}
}
