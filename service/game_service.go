package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/beka-birhanu/labyrinth-duel/engine"
	"github.com/beka-birhanu/labyrinth-duel/service/i"
)

// ErrChatBlocked is returned when a jammed player tries to speak.
var ErrChatBlocked = errors.New("chat is blocked for this player right now")

func nowUTC() time.Time { return time.Now().UTC() }

// GameService runs every game command as a store transaction over the game
// document and archives games the moment they finish.
type GameService struct {
	store    i.GameStore
	archiver i.MatchArchiver
	engine   *engine.Engine
	logger   *log.Logger
}

// GameServiceConfig carries GameService dependencies.
type GameServiceConfig struct {
	Store    i.GameStore
	Archiver i.MatchArchiver
	Engine   *engine.Engine
	Logger   *log.Logger
}

func NewGameService(c *GameServiceConfig) *GameService {
	return &GameService{
		store:    c.Store,
		archiver: c.Archiver,
		engine:   c.Engine,
		logger:   c.Logger,
	}
}

// Snapshot returns the current game document. Clients rejoining mid-game
// re-derive everything from it.
func (s *GameService) Snapshot(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.Get(ctx, gameID)
}

// Subscribe streams the document after every committed change.
func (s *GameService) Subscribe(ctx context.Context, gameID string) (<-chan *domain.Game, func(), error) {
	return s.store.Subscribe(ctx, gameID)
}

// mutate wraps a rules transition in a store transaction and archives the
// game if the transition finished it.
func (s *GameService) mutate(ctx context.Context, gameID string, fn func(*domain.Game) error) (*domain.Game, error) {
	g, err := s.store.Transact(ctx, gameID, fn)
	if err != nil {
		return nil, err
	}
	if g.Status == domain.StatusFinished {
		s.archive(ctx, g)
	}
	return g, nil
}

// archive is best effort; Save upserts so repeats after races are harmless.
func (s *GameService) archive(ctx context.Context, g *domain.Game) {
	if err := s.archiver.Save(ctx, domain.NewMatchRecord(g, nowUTC())); err != nil {
		s.logger.Printf("%s[ERROR]%s archiving game %s: %s", config.LogErrorColor, config.LogColorReset, g.ID, err)
	}
}

// SubmitMaze validates and stores the player's maze; the last submission
// also runs the round setup.
func (s *GameService) SubmitMaze(ctx context.Context, gameID, playerID string, maze *domain.Maze) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.SubmitMaze(g, playerID, maze)
	})
}

// Move applies a standard-mode step.
func (s *GameService) Move(ctx context.Context, gameID, playerID string, dir domain.Direction) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.StandardMove(g, playerID, dir)
	})
}

// PlaceBet submits a secret battle bet.
func (s *GameService) PlaceBet(ctx context.Context, gameID, playerID string, bet int) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.PlaceBattleBet(g, playerID, bet)
	})
}

// Declare locks in the player's extra-mode action for this round.
func (s *GameService) Declare(ctx context.Context, gameID, playerID string, d domain.Declaration) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.Declare(g, playerID, d)
	})
}

// RespondToOffer accepts or rejects a pending negotiation offer.
func (s *GameService) RespondToOffer(ctx context.Context, gameID, playerID, offerID string, accept bool) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.RespondToOffer(g, playerID, offerID, accept)
	})
}

// Nudge lets a client push an expired phase forward. The engine treats
// stale or duplicate nudges as no-ops.
func (s *GameService) Nudge(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return s.engine.AdvancePhase(g)
	})
}

// SendChat appends a message to the game's chat stream unless the sender
// is jammed.
func (s *GameService) SendChat(ctx context.Context, gameID, playerID, text string) error {
	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if !g.HasPlayer(playerID) {
		return engine.ErrNotInGame
	}
	if !engine.CanChat(g, playerID) {
		return ErrChatBlocked
	}
	_, err = s.store.AppendChat(ctx, gameID, domain.ChatMessage{
		SenderID: playerID,
		Text:     text,
		SentAt:   nowUTC(),
	})
	return err
}

// ChatHistory returns recent chat, oldest first.
func (s *GameService) ChatHistory(ctx context.Context, gameID string, limit int64) ([]domain.ChatMessage, error) {
	return s.store.ChatHistory(ctx, gameID, limit)
}

// History lists the player's archived matches, newest first.
func (s *GameService) History(ctx context.Context, playerID string, limit int64) ([]*domain.MatchRecord, error) {
	return s.archiver.ByPlayer(ctx, playerID, limit)
}
