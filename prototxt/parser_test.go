package prototxt

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	code := `# segmenter definition
		name: "Segmenter"
		layers {
			name: "conv1"
			type: CONVOLUTION
			convolution_param {
				num_output: 32   # feature maps
				kernel_size: 5
			}
		}
	`
	actual, err := Parse(code)
	if err != nil {
		t.Fatal(err)
	}
	expected := &Message{
		Fields: []*Field{
			{Line: 1, Name: "name", Value: `"Segmenter"`},
			{Line: 2, Name: "layers", Msg: &Message{
				Fields: []*Field{
					{Line: 3, Name: "name", Value: `"conv1"`},
					{Line: 4, Name: "type", Value: "CONVOLUTION"},
					{Line: 5, Name: "convolution_param", Msg: &Message{
						Fields: []*Field{
							{Line: 6, Name: "num_output", Value: "32"},
							{Line: 7, Name: "kernel_size", Value: "5"},
						},
					}},
				},
			}},
		},
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("got %#v expect %#v", actual, expected)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		code string
		line int
	}{
		{"name = 3", 0},
		{"layers {\nname: \"x\"", 0},
		{"name: \"ok\"\n???", 1},
		{"layers {\n}\n}", 2},
	}
	for i, tc := range cases {
		_, err := Parse(tc.code)
		if err == nil {
			t.Errorf("case %d: expect parse error", i)
			continue
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Errorf("case %d: expect *ParseError got %T", i, err)
		} else if pe.Line != tc.line {
			t.Errorf("case %d: error on line %d expect %d", i, pe.Line, tc.line)
		}
	}
}

func TestMessageGet(t *testing.T) {
	msg, err := Parse("top: \"data\"\ntop: \"label\"\ninclude {\nphase: TEST\n}")
	if err != nil {
		t.Fatal(err)
	}
	if f := msg.Get("top"); f == nil || f.Value != `"data"` {
		t.Errorf("Get top: %v", f)
	}
	if n := len(msg.All("top")); n != 2 {
		t.Errorf("All top: %d fields expect 2", n)
	}
	if f := msg.Get("include"); f != nil {
		t.Error("Get should skip message fields")
	}
	if f := msg.Get("bottom"); f != nil {
		t.Error("Get of missing field should be nil")
	}
}
