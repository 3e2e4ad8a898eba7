package domain

import "fmt"

// Cell is a grid coordinate. Row and Col are zero-based.
type Cell struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Key returns the canonical string form used for set membership,
// e.g. in PlayerState.RevealedCells.
func (c Cell) Key() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Col)
}

// InBound reports whether the cell lies inside a gridSize x gridSize grid.
func (c Cell) InBound(gridSize int) bool {
	return c.Row >= 0 && c.Row < gridSize && c.Col >= 0 && c.Col < gridSize
}

// Adjacent reports whether other is exactly one orthogonal step away.
func (c Cell) Adjacent(other Cell) bool {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// Direction is one of the four cardinal movement directions.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Directions lists all cardinal directions in a fixed order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Step returns the cell one move away in the given direction.
// The result may be out of bounds; callers check InBound.
func (c Cell) Step(d Direction) Cell {
	switch d {
	case DirUp:
		return Cell{Row: c.Row - 1, Col: c.Col}
	case DirDown:
		return Cell{Row: c.Row + 1, Col: c.Col}
	case DirLeft:
		return Cell{Row: c.Row, Col: c.Col - 1}
	case DirRight:
		return Cell{Row: c.Row, Col: c.Col + 1}
	}
	return c
}
