package engine

import (
	"testing"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardMove(t *testing.T) {
	t.Run("only the current player may move", func(t *testing.T) {
		e, _ := newTestEngine(10)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		waiting := g.TurnOrder[1]
		assert.ErrorIs(t, e.StandardMove(g, waiting, domain.DirRight), ErrNotYourTurn)
	})

	t.Run("walls and grid edges block movement", func(t *testing.T) {
		e, _ := newTestEngine(11)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		mover := g.CurrentTurnPlayerID

		var illegal *domain.IllegalActionError
		require.ErrorAs(t, e.StandardMove(g, mover, domain.DirDown), &illegal) // wall below (0,0)
		require.ErrorAs(t, e.StandardMove(g, mover, domain.DirUp), &illegal)   // off the grid
		assert.Equal(t, domain.Cell{Row: 0, Col: 0}, g.State(mover).Position)
		assert.Equal(t, mover, g.CurrentTurnPlayerID, "failed moves do not pass the turn")
	})

	t.Run("discovery pays once per cell", func(t *testing.T) {
		e, _ := newTestEngine(12)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		first, second := g.TurnOrder[0], g.TurnOrder[1]
		g.State(first).Position = domain.Cell{Row: 5, Col: 0}
		g.State(second).Position = domain.Cell{Row: 4, Col: 0}

		require.NoError(t, e.StandardMove(g, first, domain.DirRight))
		assert.Equal(t, 1, g.State(first).Score)
		require.NoError(t, e.StandardMove(g, second, domain.DirRight))

		require.NoError(t, e.StandardMove(g, first, domain.DirLeft))
		require.NoError(t, e.StandardMove(g, second, domain.DirLeft))
		require.NoError(t, e.StandardMove(g, first, domain.DirRight)) // revisits (5,1)
		assert.Equal(t, 2, g.State(first).Score, "revisited cell pays nothing")
	})

	t.Run("turn order round-robins back to the first player", func(t *testing.T) {
		e, _ := newTestEngine(13)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		first, second := g.TurnOrder[0], g.TurnOrder[1]
		g.State(first).Position = domain.Cell{Row: 5, Col: 0}
		g.State(second).Position = domain.Cell{Row: 4, Col: 0}

		require.NoError(t, e.StandardMove(g, first, domain.DirRight))
		require.NoError(t, e.StandardMove(g, second, domain.DirRight))
		assert.Equal(t, first, g.CurrentTurnPlayerID)
	})

	t.Run("reaching the goal ends a two player game", func(t *testing.T) {
		e, _ := newTestEngine(14)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		mover := g.CurrentTurnPlayerID
		g.State(mover).Position = domain.Cell{Row: 5, Col: 4}

		require.NoError(t, e.StandardMove(g, mover, domain.DirRight))
		assert.Equal(t, domain.StatusFinished, g.Status)
		assert.Equal(t, 1, g.GoalCount)
		assert.Equal(t, []string{mover}, g.PlayerGoalOrder)
		assert.Equal(t, 1, g.State(mover).Rank)
		assert.Equal(t, 2, g.State(g.TurnOrder[1]).Rank)
		assert.NotNil(t, g.State(mover).GoalTime)
	})
}

func TestBattle(t *testing.T) {
	// openBattleGame moves the current player onto the opponent's cell.
	openBattleGame := func(t *testing.T, seed int64) (*Engine, *domain.Game, string, string) {
		t.Helper()
		e, _ := newTestEngine(seed)
		g := playingGame(t, e, domain.TypeStandard, []string{"p1", "p2"})
		mover, other := g.TurnOrder[0], g.TurnOrder[1]
		g.State(mover).Position = domain.Cell{Row: 5, Col: 0}
		g.State(other).Position = domain.Cell{Row: 5, Col: 1}
		require.NoError(t, e.StandardMove(g, mover, domain.DirRight))
		require.NotNil(t, g.ActiveBattle)
		g.State(mover).Score = 5
		g.State(other).Score = 5
		return e, g, mover, other
	}

	t.Run("landing on an opponent opens a battle and freezes movement", func(t *testing.T) {
		e, g, mover, other := openBattleGame(t, 20)
		assert.True(t, g.State(mover).InBattle)
		assert.True(t, g.State(other).InBattle)
		assert.ErrorIs(t, e.StandardMove(g, mover, domain.DirLeft), ErrInBattle)
	})

	t.Run("higher bet takes the loser's bet", func(t *testing.T) {
		e, g, mover, other := openBattleGame(t, 21)
		require.NoError(t, e.PlaceBattleBet(g, mover, 3))
		require.NoError(t, e.PlaceBattleBet(g, other, 5))

		assert.Equal(t, 8, g.State(other).Score)
		assert.Equal(t, 2, g.State(mover).Score)
		assert.Nil(t, g.ActiveBattle)
		assert.False(t, g.State(mover).InBattle)
		assert.Equal(t, other, g.CurrentTurnPlayerID, "turn passes after the battle")
	})

	t.Run("tie moves nothing", func(t *testing.T) {
		e, g, mover, other := openBattleGame(t, 22)
		require.NoError(t, e.PlaceBattleBet(g, mover, 4))
		require.NoError(t, e.PlaceBattleBet(g, other, 4))
		assert.Equal(t, 5, g.State(mover).Score)
		assert.Equal(t, 5, g.State(other).Score)
	})

	t.Run("bets outside the allowed range are rejected", func(t *testing.T) {
		e, g, mover, _ := openBattleGame(t, 23)
		assert.ErrorIs(t, e.PlaceBattleBet(g, mover, 0), ErrBetOutOfRange)
		assert.ErrorIs(t, e.PlaceBattleBet(g, mover, 6), ErrBetOutOfRange)
	})

	t.Run("second bet from the same player is rejected", func(t *testing.T) {
		e, g, mover, _ := openBattleGame(t, 24)
		require.NoError(t, e.PlaceBattleBet(g, mover, 3))
		var illegal *domain.IllegalActionError
		assert.ErrorAs(t, e.PlaceBattleBet(g, mover, 4), &illegal)
	})
}
