package engine

import (
	"fmt"
	"strings"
)

// Color is the value stored in a board cell. Empty cells hold the zero value,
// locked cells hold the color of the piece that was merged into them.
type Color uint8

const (
	Empty Color = iota
	Cyan
	Blue
	Orange
	Yellow
	Green
	Purple
	Red
)

var colorNames = [...]string{
	Empty:  "empty",
	Cyan:   "cyan",
	Blue:   "blue",
	Orange: "orange",
	Yellow: "yellow",
	Green:  "green",
	Purple: "purple",
	Red:    "red",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Rand is the source used to draw pieces. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Kind is one entry of the shape catalog.
type Kind struct {
	Name  string
	Shape Shape
	Color Color
}

var catalog []Kind

func init() {
	// Order matters: a shape's color is fixed by its position.
	visualDefs := []struct {
		name, visual string
	}{
		{"I", `
|XXXX
`},
		{"T", `
|XXX
| X
`},
		{"L", `
|XXX
|X
`},
		{"J", `
|XXX
|  X
`},
		{"O", `
|XX
|XX
`},
		{"Z", `
|XX
| XX
`},
		{"S", `
| XX
|XX
`},
	}

	catalog = make([]Kind, 0, len(visualDefs))
	for i, d := range visualDefs {
		s, err := parseVisual(d.visual)
		if err != nil {
			panic(fmt.Sprintf("failed to parse visual for %s: %v", d.name, err))
		}
		catalog = append(catalog, Kind{
			Name:  d.name,
			Shape: s,
			Color: Color(i + 1),
		})
	}
}

// Catalog returns a copy of the seven predefined shapes in catalog order.
func Catalog() []Kind {
	kinds := make([]Kind, len(catalog))
	for i, k := range catalog {
		kinds[i] = Kind{Name: k.Name, Shape: k.Shape.Clone(), Color: k.Color}
	}
	return kinds
}

// RandomShape draws one catalog shape uniformly and returns a private copy of
// it together with its fixed color.
func RandomShape(r Rand) (Shape, Color) {
	k := catalog[r.IntN(len(catalog))]
	return k.Shape.Clone(), k.Color
}

// parseVisual converts a visual raw string into a Shape. Lines that begin with
// '|' are rows, characters after the '|' are the columns and an 'X' marks an
// occupied cell. Short rows are padded so the result is rectangular.
func parseVisual(v string) (Shape, error) {
	v = strings.TrimSpace(v)
	lines := make([]string, 0, 4)
	width := 0
	for ln := range strings.SplitSeq(v, "\n") {
		if !strings.HasPrefix(ln, "|") {
			continue
		}
		ln = strings.TrimRight(ln[1:], " ")
		lines = append(lines, ln)
		width = max(width, len(ln))
	}
	if len(lines) == 0 || width == 0 {
		return nil, fmt.Errorf("no rows found")
	}

	s := make(Shape, len(lines))
	occupied := 0
	for y, row := range lines {
		s[y] = make([]bool, width)
		for x, ch := range row {
			switch ch {
			case 'X':
				s[y][x] = true
				occupied++
			case ' ':
			default:
				return nil, fmt.Errorf("unexpected %q at (%d,%d)", ch, x, y)
			}
		}
	}
	if occupied == 0 {
		return nil, fmt.Errorf("no occupied cells")
	}
	return s, nil
}
