package stats

import (
	"math"
	"testing"
)

func TestAverage(t *testing.T) {
	var avg Average
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		avg.Add(x)
	}
	if avg.Count != 8 {
		t.Errorf("count %g expect 8", avg.Count)
	}
	if avg.Mean != 5 {
		t.Errorf("mean %g expect 5", avg.Mean)
	}
	if math.Abs(avg.StdDev-2.13809) > 1e-5 {
		t.Errorf("stddev %g expect 2.13809", avg.StdDev)
	}
}

func TestBytes(t *testing.T) {
	cases := []struct {
		elems  int
		expect string
	}{
		{2, "8B"},
		{8112, "31.7K"},
		{4056000, "15.5M"},
	}
	for _, tc := range cases {
		if got := Bytes(tc.elems); got != tc.expect {
			t.Errorf("Bytes(%d) = %q expect %q", tc.elems, got, tc.expect)
		}
	}
}
