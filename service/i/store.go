package i

import (
	"context"

	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
)

// GameStore is the shared game document store. One Game document is the
// unit of consistency; Transact gives optimistic read-modify-write over it.
type GameStore interface {
	// Create persists a brand new game document.
	Create(ctx context.Context, g *dmn.Game) error

	// Get fetches the current game document by id.
	Get(ctx context.Context, id string) (*dmn.Game, error)

	// Transact reads the game, applies fn to it, and commits the result
	// only if no other writer touched the document in between, retrying
	// on contention. A non-nil error from fn aborts without writing.
	// The committed document is returned.
	Transact(ctx context.Context, id string, fn func(*dmn.Game) error) (*dmn.Game, error)

	// Subscribe delivers the fresh document after every committed change
	// until the context is done or the cancel func is called.
	Subscribe(ctx context.Context, id string) (<-chan *dmn.Game, func(), error)

	// AppendChat appends a message to the game's chat stream with a
	// server-assigned monotonic id.
	AppendChat(ctx context.Context, gameID string, msg dmn.ChatMessage) (string, error)

	// ChatHistory returns up to limit most recent chat messages, oldest
	// first.
	ChatHistory(ctx context.Context, gameID string, limit int64) ([]dmn.ChatMessage, error)

	// FindWaiting returns the id of some waiting game for the mode and
	// type, or ErrNotFound-equivalent from the implementation.
	FindWaiting(ctx context.Context, mode dmn.GameMode, gameType dmn.GameType) (string, error)

	// MarkWaiting and UnmarkWaiting maintain the waiting-game index.
	MarkWaiting(ctx context.Context, g *dmn.Game) error
	UnmarkWaiting(ctx context.Context, g *dmn.Game) error

	// LiveGames lists ids of every unfinished game, so watchers can be
	// rebuilt after a restart.
	LiveGames(ctx context.Context) ([]string, error)
}
