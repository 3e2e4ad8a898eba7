package domain

import (
	"fmt"
	"math/rand"
)

// Maze is a player-authored wall layout with a start and a goal.
// Walls holds only the active walls; every maze accepted into a game is
// solvable (PathExists) and carries exactly WallCount active walls.
type Maze struct {
	Start    Cell   `json:"start"`
	Goal     Cell   `json:"goal"`
	Walls    []Wall `json:"walls"`
	OwnerID  string `json:"ownerId"`
	GridSize int    `json:"gridSize"`
}

// PathExists runs a breadth-first search over the 4-connected grid and
// reports whether goal is reachable from start. An edge between adjacent
// cells is traversable iff no active wall separates them. Out-of-range
// neighbors are treated as nonexistent. O(gridSize^2).
func PathExists(start, goal Cell, walls []Wall, gridSize int) bool {
	if !start.InBound(gridSize) || !goal.InBound(gridSize) {
		return false
	}

	set := NewWallSet(walls)
	visited := make(map[Cell]struct{}, gridSize*gridSize)
	visited[start] = struct{}{}
	queue := []Cell{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return true
		}
		for _, d := range Directions {
			next := cur.Step(d)
			if !next.InBound(gridSize) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			if set.Separates(cur, next) {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

// Blocked reports whether moving between two adjacent cells is prevented
// by an active wall of this maze.
func (m *Maze) Blocked(from, to Cell) bool {
	return NewWallSet(m.Walls).Separates(from, to)
}

// Validate checks the submission invariants: exact wall count, distinct
// start and goal, addressable wall slots, and BFS reachability. The first
// violated invariant is reported; the maze is never mutated.
func (m *Maze) Validate() error {
	if m.Start == m.Goal {
		return &ValidationError{Invariant: InvariantStartGoal, Detail: "start and goal occupy the same cell"}
	}
	if !m.Start.InBound(m.GridSize) || !m.Goal.InBound(m.GridSize) {
		return &ValidationError{Invariant: InvariantCellInBound, Detail: "start or goal outside the grid"}
	}
	if len(m.Walls) != WallCount {
		return &ValidationError{
			Invariant: InvariantWallCount,
			Detail:    fmt.Sprintf("got %d active walls, need exactly %d", len(m.Walls), WallCount),
		}
	}
	for _, w := range m.Walls {
		if !w.InBound(m.GridSize) {
			return &ValidationError{
				Invariant: InvariantWallAddress,
				Detail:    fmt.Sprintf("wall (%d,%d,%s) is not addressable on a %dx%d grid", w.Row, w.Col, w.Orientation, m.GridSize, m.GridSize),
			}
		}
	}
	if !PathExists(m.Start, m.Goal, m.Walls, m.GridSize) {
		return &ValidationError{Invariant: InvariantPathExists, Detail: "no path from start to goal"}
	}
	return nil
}

// ToggleWall flips the active state of one wall slot. Activating a wall
// that would exceed the wall budget or disconnect start from goal is
// rejected before any mutation, with the violated invariant named.
// Deactivating can only open paths and is always allowed.
func (m *Maze) ToggleWall(w Wall) error {
	if !w.InBound(m.GridSize) {
		return &ValidationError{
			Invariant: InvariantWallAddress,
			Detail:    fmt.Sprintf("wall (%d,%d,%s) is not addressable", w.Row, w.Col, w.Orientation),
		}
	}

	for i, existing := range m.Walls {
		if existing == w {
			m.Walls = append(m.Walls[:i], m.Walls[i+1:]...)
			return nil
		}
	}

	if len(m.Walls) >= WallCount {
		return &ValidationError{
			Invariant: InvariantWallBudget,
			Detail:    fmt.Sprintf("wall budget of %d already spent", WallCount),
		}
	}
	next := append(append([]Wall(nil), m.Walls...), w)
	if !PathExists(m.Start, m.Goal, next, m.GridSize) {
		return &ValidationError{Invariant: InvariantPathExists, Detail: "wall would disconnect start from goal"}
	}
	m.Walls = next
	return nil
}

// RandomMaze produces a solvable maze with exactly WallCount active walls
// and distinct random start/goal cells. Used when a creation deadline
// expires before a player submits. Retries whole layouts until one passes
// validation, which terminates quickly in practice since a random 20-wall
// layout on these grids is almost always connected.
func RandomMaze(ownerID string, gridSize int, rng *rand.Rand) *Maze {
	slots := AllWallSlots(gridSize)
	for {
		rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
		walls := append([]Wall(nil), slots[:WallCount]...)

		start := Cell{Row: rng.Intn(gridSize), Col: rng.Intn(gridSize)}
		goal := Cell{Row: rng.Intn(gridSize), Col: rng.Intn(gridSize)}
		if start == goal {
			continue
		}
		m := &Maze{Start: start, Goal: goal, Walls: walls, OwnerID: ownerID, GridSize: gridSize}
		if m.Validate() == nil {
			return m
		}
	}
}
