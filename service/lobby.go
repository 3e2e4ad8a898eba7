package service

import (
	"context"
	"fmt"
	"log"

	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/beka-birhanu/labyrinth-duel/engine"
	"github.com/beka-birhanu/labyrinth-duel/service/i"
	"github.com/google/uuid"
)

const lobbyLockKeyFmt = "lobby:%s:%s"

// Lobby seats players into games: join an open waiting game for the
// requested mode and type, or create a fresh one. Creation runs under a
// distributed lock so two players cannot both open a new lobby for the
// same bracket at the same time.
type Lobby struct {
	store    i.GameStore
	locker   i.Locker
	engine   *engine.Engine
	watchdog *Watchdog
	logger   *log.Logger
}

// LobbyConfig carries Lobby dependencies.
type LobbyConfig struct {
	Store    i.GameStore
	Locker   i.Locker
	Engine   *engine.Engine
	Watchdog *Watchdog
	Logger   *log.Logger
}

func NewLobby(c *LobbyConfig) *Lobby {
	return &Lobby{
		store:    c.Store,
		locker:   c.Locker,
		engine:   c.Engine,
		watchdog: c.Watchdog,
		logger:   c.Logger,
	}
}

// JoinOrCreate puts the player into a game for the bracket and returns the
// committed document. Rejoining a game the player is already seated in is
// harmless.
func (l *Lobby) JoinOrCreate(ctx context.Context, playerID string, mode domain.GameMode, gameType domain.GameType) (*domain.Game, error) {
	unlock, err := l.locker.Lock(ctx, fmt.Sprintf(lobbyLockKeyFmt, mode, gameType))
	if err != nil {
		return nil, fmt.Errorf("acquiring lobby lock: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			l.logger.Printf("%s[WARN]%s releasing lobby lock: %s", config.LogWarnColor, config.LogColorReset, err)
		}
	}()

	gameID, err := l.store.FindWaiting(ctx, mode, gameType)
	if err == nil {
		return l.join(ctx, gameID, playerID)
	}

	g := domain.NewGame(uuid.NewString(), mode, gameType, playerID, nowUTC())
	if err := l.store.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	if err := l.store.MarkWaiting(ctx, g); err != nil {
		return nil, fmt.Errorf("indexing waiting game: %w", err)
	}
	l.watchdog.Watch(g.ID)
	l.logger.Printf("%s[INFO]%s player %s opened game %s (%s %s)", config.LogInfoColor, config.LogColorReset, playerID, g.ID, mode, gameType)
	return g, nil
}

func (l *Lobby) join(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	g, err := l.store.Transact(ctx, gameID, func(g *domain.Game) error {
		return l.engine.AddPlayer(g, playerID)
	})
	if err != nil {
		return nil, err
	}
	if g.Status != domain.StatusWaiting {
		if err := l.store.UnmarkWaiting(ctx, g); err != nil {
			l.logger.Printf("%s[WARN]%s dropping game %s from waiting index: %s", config.LogWarnColor, config.LogColorReset, g.ID, err)
		}
	}
	l.logger.Printf("%s[INFO]%s player %s joined game %s", config.LogInfoColor, config.LogColorReset, playerID, g.ID)
	return g, nil
}
