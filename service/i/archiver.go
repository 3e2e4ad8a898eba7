package i

import (
	"context"

	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
)

// MatchArchiver persists finished games for history queries.
type MatchArchiver interface {
	// Save inserts or updates the archived record for a finished game.
	Save(ctx context.Context, record *dmn.MatchRecord) error

	// ByPlayer lists archived matches a player took part in, newest first.
	ByPlayer(ctx context.Context, playerID string, limit int64) ([]*dmn.MatchRecord, error)
}
