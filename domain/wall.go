package domain

// Orientation distinguishes the two wall placements on a grid edge.
type Orientation string

const (
	// Horizontal walls at (r,c) block movement between (r,c) and (r+1,c).
	Horizontal Orientation = "horizontal"
	// Vertical walls at (r,c) block movement between (r,c) and (r,c+1).
	Vertical Orientation = "vertical"
)

// Wall is a single wall slot on the grid. Only active walls block movement;
// a Maze stores its active set sparsely.
type Wall struct {
	Row         int         `json:"r"`
	Col         int         `json:"c"`
	Orientation Orientation `json:"type"`
}

// InBound reports whether the wall slot is addressable on a grid of the
// given size: (N-1)*N horizontal plus N*(N-1) vertical positions.
func (w Wall) InBound(gridSize int) bool {
	switch w.Orientation {
	case Horizontal:
		return w.Row >= 0 && w.Row < gridSize-1 && w.Col >= 0 && w.Col < gridSize
	case Vertical:
		return w.Row >= 0 && w.Row < gridSize && w.Col >= 0 && w.Col < gridSize-1
	}
	return false
}

// AllWallSlots enumerates every addressable wall position for a grid.
func AllWallSlots(gridSize int) []Wall {
	walls := make([]Wall, 0, 2*gridSize*(gridSize-1))
	for r := 0; r < gridSize-1; r++ {
		for c := 0; c < gridSize; c++ {
			walls = append(walls, Wall{Row: r, Col: c, Orientation: Horizontal})
		}
	}
	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize-1; c++ {
			walls = append(walls, Wall{Row: r, Col: c, Orientation: Vertical})
		}
	}
	return walls
}

// WallSet indexes walls for O(1) membership checks.
type WallSet map[Wall]struct{}

// NewWallSet builds a WallSet from a slice of walls.
func NewWallSet(walls []Wall) WallSet {
	set := make(WallSet, len(walls))
	for _, w := range walls {
		set[w] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s WallSet) Has(w Wall) bool {
	_, ok := s[w]
	return ok
}

// Separates reports whether the set contains a wall between two adjacent
// cells. Non-adjacent cells are never separated by a single wall.
func (s WallSet) Separates(a, b Cell) bool {
	if a.Row == b.Row {
		left := a.Col
		if b.Col < left {
			left = b.Col
		}
		return s.Has(Wall{Row: a.Row, Col: left, Orientation: Vertical})
	}
	if a.Col == b.Col {
		top := a.Row
		if b.Row < top {
			top = b.Row
		}
		return s.Has(Wall{Row: top, Col: a.Col, Orientation: Horizontal})
	}
	return false
}
