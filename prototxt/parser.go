// Package prototxt reads and writes the text format the network definition
// is shipped in: "key: value" scalar fields and nested "name { ... }"
// blocks, one per line, with # comments.
package prototxt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	scalarExpr = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*) *: *(.+)$`)
	openExpr   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*) *\{$`)
)

// A ParseError is an error produced while parsing a definition file.
type ParseError struct {
	Message string

	// Line is the line number, starting at 0.
	Line int
}

// Error produces an error message that incorporates the error message and
// line number.
func (p *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", p.Line+1, p.Message)
}

// Field is one entry of a message: either a scalar with a raw value string,
// or a nested message.
type Field struct {
	// Line is the line number, starting at 0.
	Line int

	Name  string
	Value string
	Msg   *Message
}

// Message is an ordered list of fields. The file itself is the root message.
type Message struct {
	Fields []*Field
}

// Get returns the first scalar field with the given name, or nil.
func (m *Message) Get(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name && f.Msg == nil {
			return f
		}
	}
	return nil
}

// All returns every field with the given name in order.
func (m *Message) All(name string) []*Field {
	var fields []*Field
	for _, f := range m.Fields {
		if f.Name == name {
			fields = append(fields, f)
		}
	}
	return fields
}

// Parse converts definition file contents into the root message.
func Parse(contents string) (*Message, error) {
	lines := strings.Split(contents, "\n")
	for i, x := range lines {
		if ix := strings.Index(x, "#"); ix >= 0 {
			x = x[:ix]
		}
		lines[i] = strings.TrimSpace(x)
	}
	fields, err := parseLines(0, lines)
	if err != nil {
		return nil, err
	}
	return &Message{Fields: fields}, nil
}

func parseLines(off int, l []string) ([]*Field, error) {
	var res []*Field
	for i := 0; i < len(l); i++ {
		x := l[i]
		if x == "" {
			continue
		}
		if parsed := scalarExpr.FindStringSubmatch(x); parsed != nil {
			res = append(res, &Field{
				Line:  off + i,
				Name:  parsed[1],
				Value: strings.TrimSpace(parsed[2]),
			})
			continue
		}
		parsed := openExpr.FindStringSubmatch(x)
		if parsed == nil {
			return nil, &ParseError{Message: "invalid field declaration", Line: off + i}
		}
		closeIdx, err := matchingClose(l, i)
		if err != nil {
			return nil, &ParseError{Message: err.Error(), Line: off + i}
		}
		children, err := parseLines(off+i+1, l[i+1:closeIdx])
		if err != nil {
			return nil, err
		}
		res = append(res, &Field{
			Line: off + i,
			Name: parsed[1],
			Msg:  &Message{Fields: children},
		})
		i = closeIdx
	}
	return res, nil
}

// matchingClose finds the matching close curly-brace for the line at the
// given index.
func matchingClose(lines []string, open int) (int, error) {
	numIndent := 1
	for i := open + 1; i < len(lines); i++ {
		l := lines[i]
		if l == "}" {
			numIndent--
			if numIndent == 0 {
				return i, nil
			}
		} else if strings.HasSuffix(l, "{") {
			numIndent++
		}
	}
	return 0, errors.New("no matching }")
}
