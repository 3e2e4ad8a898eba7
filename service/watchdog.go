package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/beka-birhanu/labyrinth-duel/engine"
	"github.com/beka-birhanu/labyrinth-duel/service/i"
)

const watchdogTick = time.Second

// Watchdog drives every time-based rule for the games it watches: maze
// creation deadlines, declaration timeouts, phase advancement, thinking-time
// accrual, and the overall game clock. Advancement is level triggered, so
// the watchdog and any number of impatient clients can race safely.
type Watchdog struct {
	store    i.GameStore
	archiver i.MatchArchiver
	engine   *engine.Engine
	logger   *log.Logger

	ctx     context.Context
	mu      sync.Mutex
	watched map[string]struct{}
}

// WatchdogConfig carries Watchdog dependencies. Ctx bounds the lifetime of
// every ticker goroutine.
type WatchdogConfig struct {
	Ctx      context.Context
	Store    i.GameStore
	Archiver i.MatchArchiver
	Engine   *engine.Engine
	Logger   *log.Logger
}

func NewWatchdog(c *WatchdogConfig) *Watchdog {
	return &Watchdog{
		store:    c.Store,
		archiver: c.Archiver,
		engine:   c.Engine,
		logger:   c.Logger,
		ctx:      c.Ctx,
		watched:  make(map[string]struct{}),
	}
}

// Resume rebuilds a watcher for every unfinished game in the store. Called
// once at startup so timers keep running for games that were in flight when
// the previous process died.
func (w *Watchdog) Resume() error {
	ids, err := w.store.LiveGames(w.ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		w.Watch(id)
	}
	w.logger.Printf("%s[INFO]%s resumed watching %d live games", config.LogInfoColor, config.LogColorReset, len(ids))
	return nil
}

// Watch starts a ticker for the game unless one is already running.
func (w *Watchdog) Watch(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[gameID]; ok {
		return
	}
	w.watched[gameID] = struct{}{}
	go w.run(gameID)
}

func (w *Watchdog) run(gameID string) {
	defer func() {
		w.mu.Lock()
		delete(w.watched, gameID)
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(watchdogTick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			done, err := w.tick(gameID)
			if err != nil {
				w.logger.Printf("%s[ERROR]%s watchdog tick for game %s: %s", config.LogErrorColor, config.LogColorReset, gameID, err)
				continue
			}
			if done {
				return
			}
		}
	}
}

// tick inspects the game and, only when something is due, runs the
// corresponding transition in a transaction. Returns true once the game is
// finished and the watcher can stand down.
func (w *Watchdog) tick(gameID string) (bool, error) {
	g, err := w.store.Get(w.ctx, gameID)
	if err != nil {
		return false, err
	}

	switch g.Status {
	case domain.StatusFinished:
		return true, nil
	case domain.StatusWaiting:
		return false, nil
	case domain.StatusCreating:
		if g.CreationTimerEnd == nil || time.Now().Before(*g.CreationTimerEnd) {
			return false, nil
		}
		g, err = w.store.Transact(w.ctx, gameID, func(g *domain.Game) error {
			w.engine.AutoSubmitMissingMazes(g)
			return nil
		})
		if err != nil {
			return false, err
		}
		return false, nil
	}

	if g.GameType == domain.TypeStandard {
		return g.Status == domain.StatusFinished, nil
	}

	now := time.Now()
	phaseDue := g.PhaseTimerEnd != nil && !now.Before(*g.PhaseTimerEnd)
	clockDue := g.GameTimerEnd != nil && !now.Before(*g.GameTimerEnd)
	accruing := g.CurrentPhase == domain.PhaseDeclaration
	if !phaseDue && !clockDue && !accruing {
		return false, nil
	}

	g, err = w.store.Transact(w.ctx, gameID, func(g *domain.Game) error {
		w.engine.AccrueThinkingTime(g)
		if err := w.engine.AdvancePhase(g); err != nil && err != engine.ErrWrongStatus {
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if g.Status == domain.StatusFinished {
		if err := w.archiver.Save(w.ctx, domain.NewMatchRecord(g, time.Now().UTC())); err != nil {
			w.logger.Printf("%s[ERROR]%s archiving game %s: %s", config.LogErrorColor, config.LogColorReset, gameID, err)
		}
		return true, nil
	}
	return false, nil
}
