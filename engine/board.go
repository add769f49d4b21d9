package engine

const (
	Cols = 10
	Rows = 20
)

type Board struct {
	Width, Height int
	Cells         [][]Color
}

func NewBoard(w, h int) *Board {
	cells := make([][]Color, h)
	for i := range cells {
		cells[i] = make([]Color, w)
	}
	return &Board{
		Width: w, Height: h,
		Cells: cells,
	}
}

// Spawn places a shape with its top row on row 0, horizontally centered.
func (b *Board) Spawn(s Shape, c Color) Piece {
	return Piece{
		Shape: s,
		Color: c,
		X:     b.Width/2 - s.Width()/2,
		Y:     0,
	}
}

// Collides reports whether any cell of p lies outside the side or bottom
// walls or on a locked cell. Cells above row 0 only collide with the walls.
func (b *Board) Collides(p Piece) bool {
	for c := range p.Cells() {
		if c.X < 0 || c.X >= b.Width || c.Y >= b.Height {
			return true
		}
		if c.Y >= 0 && b.Cells[c.Y][c.X] != Empty {
			return true
		}
	}
	return false
}

// Merge writes p's color into every cell it covers. Cells outside the grid
// are dropped.
func (b *Board) Merge(p Piece) {
	for c := range p.Cells() {
		if c.Y >= 0 && c.Y < b.Height && c.X >= 0 && c.X < b.Width {
			b.Cells[c.Y][c.X] = p.Color
		}
	}
}

// ClearLines removes every full row, shifting the rows above it down and
// inserting an empty row at the top. It returns the number of rows removed.
func (b *Board) ClearLines() int {
	cleared := 0

	// iterate from bottom to top, re-checking a row after it was replaced
	for y := b.Height - 1; y >= 0; {
		if !b.full(y) {
			y--
			continue
		}

		row := b.Cells[y]
		copy(b.Cells[1:y+1], b.Cells[:y])
		clear(row)
		b.Cells[0] = row
		cleared++
	}

	return cleared
}

func (b *Board) full(y int) bool {
	for _, c := range b.Cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b *Board) At(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Empty
	}
	return b.Cells[y][x]
}

func (b *Board) Reset() {
	for y := range b.Cells {
		clear(b.Cells[y])
	}
}

// Snapshot returns a deep copy of the cell grid.
func (b *Board) Snapshot() [][]Color {
	cells := make([][]Color, len(b.Cells))
	for y := range b.Cells {
		cells[y] = append([]Color(nil), b.Cells[y]...)
	}
	return cells
}
