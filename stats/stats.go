// Package stats has small helpers for the summary figures shown by the
// web viewer.
package stats

import (
	"fmt"
	"html/template"
	"math"
)

// Running mean and stddev as per http://www.johndcook.com/blog/standard_deviation/
type Average struct {
	Count, Mean float64
	Var, StdDev float64
	oldM, oldV  float64
}

func (s *Average) Add(x float64) {
	s.Count++
	if s.Count == 1 {
		s.oldM, s.Mean = x, x
		s.oldV = 0
	} else {
		s.Mean = s.oldM + (x-s.oldM)/s.Count
		s.Var = s.oldV + (x-s.oldM)*(x-s.Mean)
		s.oldM, s.oldV = s.Mean, s.Var
		if s.Count > 1 {
			s.StdDev = math.Sqrt(s.Var / (s.Count - 1))
		}
	}
}

func (s *Average) HTML() template.HTML {
	var text string
	if s.StdDev < 0.01*math.Max(1, math.Abs(s.Mean)) {
		text = format(s.Mean)
	} else {
		text = format(s.Mean) + "&PlusMinus;" + format(s.StdDev)
	}
	return template.HTML(text)
}

func format(v float64) string {
	if math.Abs(v) >= 10 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Bytes formats a float32 element count as a memory size.
func Bytes(elems int) string {
	size := float64(4 * elems)
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1fM", size/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1fK", size/(1<<10))
	default:
		return fmt.Sprintf("%.0fB", size)
	}
}
