package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) tick()                   { c.advance(time.Millisecond) }

func newTestEngine(seed int64) (*Engine, *fakeClock) {
	clk := newFakeClock()
	e := New(WithRand(rand.New(rand.NewSource(seed))), WithClock(clk.now))
	return e, clk
}

// testMaze builds a solvable 20-wall maze: horizontal walls across rows
// 0..3, columns 0..4, corner to corner.
func testMaze(size int) *domain.Maze {
	walls := make([]domain.Wall, 0, domain.WallCount)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			walls = append(walls, domain.Wall{Row: r, Col: c, Orientation: domain.Horizontal})
		}
	}
	return &domain.Maze{
		Start: domain.Cell{Row: 0, Col: 0},
		Goal:  domain.Cell{Row: size - 1, Col: size - 1},
		Walls: walls,
	}
}

// playingGame seats the players, submits a maze for each, and returns the
// game in playing state.
func playingGame(t *testing.T, e *Engine, gameType domain.GameType, players []string) *domain.Game {
	t.Helper()
	mode := domain.ModeTwoPlayer
	if len(players) > 2 {
		mode = domain.ModeFourPlayer
	}
	g := domain.NewGame("g1", mode, gameType, players[0], e.now())
	for _, p := range players[1:] {
		require.NoError(t, e.AddPlayer(g, p))
	}
	require.Equal(t, domain.StatusCreating, g.Status)

	size := domain.GridSizeFor(gameType)
	for _, p := range players {
		require.NoError(t, e.SubmitMaze(g, p, testMaze(size)))
	}
	require.Equal(t, domain.StatusPlaying, g.Status)
	return g
}

// declareAll submits the given declarations keyed by player, nudging the
// clock between submissions so tie-breaks are stable.
func declareAll(t *testing.T, e *Engine, clk *fakeClock, g *domain.Game, decls map[string]domain.Declaration) {
	t.Helper()
	for _, p := range g.Players {
		d, ok := decls[p]
		if !ok {
			continue
		}
		require.NoError(t, e.Declare(g, p, d))
		clk.tick()
	}
}
