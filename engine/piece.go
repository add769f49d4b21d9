package engine

import "iter"

// Shape is a rectangular matrix of occupied cells, indexed [row][col].
type Shape [][]bool

func (s Shape) Height() int { return len(s) }

func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	for y := range s {
		c[y] = append([]bool(nil), s[y]...)
	}
	return c
}

func (s Shape) Equal(o Shape) bool {
	if s.Height() != o.Height() || s.Width() != o.Width() {
		return false
	}
	for y := range s {
		for x := range s[y] {
			if s[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// RotateCW returns a new matrix holding s turned 90° clockwise. An h×w input
// becomes w×h; s is never modified.
func (s Shape) RotateCW() Shape {
	h, w := s.Height(), s.Width()
	rotated := make(Shape, w)
	for x := range rotated {
		rotated[x] = make([]bool, h)
	}
	for y := range h {
		for x := range w {
			rotated[x][h-1-y] = s[y][x]
		}
	}
	return rotated
}

// Point is a cell position on the board. Y increases downward.
type Point struct {
	X, Y int
}

// Piece is a positioned instance of a shape. X, Y is the board position of
// the shape matrix's top-left cell.
type Piece struct {
	Shape Shape
	Color Color
	X, Y  int
}

func (p Piece) Translate(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

func (p Piece) WithShape(s Shape) Piece {
	p.Shape = s
	return p
}

// Cells yields the absolute board position of every occupied cell of p.
func (p Piece) Cells() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y, row := range p.Shape {
			for x, filled := range row {
				if !filled {
					continue
				}
				if !yield(Point{X: p.X + x, Y: p.Y + y}) {
					return
				}
			}
		}
	}
}

func (p Piece) Clone() Piece {
	p.Shape = p.Shape.Clone()
	return p
}
