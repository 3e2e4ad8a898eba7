// Package store implements the shared game store on redis: the game
// document lives as one JSON value, optimistic transactions ride on WATCH,
// change notifications on pub/sub, and chat on a stream.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/config"
	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/redis/go-redis/v9"
)

const (
	gameKeyFmt     = "game:%s"
	changeChanFmt  = "game:%s:changes"
	chatStreamFmt  = "game:%s:chat"
	waitingSetFmt  = "lobby:waiting:%s:%s"
	liveSetKey     = "games:live"
	defaultRetries = 8
	gameTTL        = 24 * time.Hour
)

var (
	// ErrNotFound means no game document exists under the id.
	ErrNotFound = errors.New("game not found")
	// ErrConflict means the optimistic transaction lost every retry.
	ErrConflict = errors.New("too much contention on game document")
)

// RedisStore is the redis-backed game store.
type RedisStore struct {
	client  *redis.Client
	logger  *log.Logger
	retries int
}

// Options configures a RedisStore.
type Options struct {
	Logger *log.Logger
	// Retries bounds optimistic transaction attempts. Zero means default.
	Retries int
}

func New(client *redis.Client, opts *Options) *RedisStore {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	return &RedisStore{
		client:  client,
		logger:  opts.Logger,
		retries: opts.Retries,
	}
}

func gameKey(id string) string       { return fmt.Sprintf(gameKeyFmt, id) }
func changeChannel(id string) string { return fmt.Sprintf(changeChanFmt, id) }
func chatStream(id string) string    { return fmt.Sprintf(chatStreamFmt, id) }

func waitingSet(mode dmn.GameMode, gameType dmn.GameType) string {
	return fmt.Sprintf(waitingSetFmt, mode, gameType)
}

// Create persists a brand new game document and announces it.
func (s *RedisStore) Create(ctx context.Context, g *dmn.Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding game: %w", err)
	}
	ok, err := s.client.SetNX(ctx, gameKey(g.ID), raw, gameTTL).Result()
	if err != nil {
		return fmt.Errorf("writing game: %w", err)
	}
	if !ok {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	if err := s.client.SAdd(ctx, liveSetKey, g.ID).Err(); err != nil {
		return fmt.Errorf("indexing live game: %w", err)
	}
	s.publish(ctx, g.ID, raw)
	return nil
}

// Get fetches and decodes the game document.
func (s *RedisStore) Get(ctx context.Context, id string) (*dmn.Game, error) {
	raw, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading game: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) (*dmn.Game, error) {
	var g dmn.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decoding game: %w", err)
	}
	return &g, nil
}

// Transact runs fn against a fresh copy of the document under WATCH and
// commits only if no other writer changed it meanwhile. Contention retries
// with fresh reads; an error from fn aborts cleanly without writing.
func (s *RedisStore) Transact(ctx context.Context, id string, fn func(*dmn.Game) error) (*dmn.Game, error) {
	key := gameKey(id)
	var committed *dmn.Game

	for attempt := 0; attempt < s.retries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			g, err := decode(raw)
			if err != nil {
				return err
			}
			if err := fn(g); err != nil {
				return err
			}
			next, err := json.Marshal(g)
			if err != nil {
				return fmt.Errorf("encoding game: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, next, gameTTL)
				return nil
			})
			if err != nil {
				return err
			}
			committed = g
			s.publish(ctx, id, next)
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		if committed.Status == dmn.StatusFinished {
			if err := s.client.SRem(ctx, liveSetKey, id).Err(); err != nil && s.logger != nil {
				s.logger.Printf("%s[WARN]%s dropping game %s from live index: %s", config.LogWarnColor, config.LogColorReset, id, err)
			}
		}
		return committed, nil
	}
	return nil, ErrConflict
}

func (s *RedisStore) publish(ctx context.Context, id string, raw []byte) {
	if err := s.client.Publish(ctx, changeChannel(id), raw).Err(); err != nil && s.logger != nil {
		s.logger.Printf("%s[WARN]%s publishing change for game %s: %s", config.LogWarnColor, config.LogColorReset, id, err)
	}
}

// Subscribe delivers the document after every committed change. The first
// delivery is the current state so subscribers never start blind. Slow
// consumers miss intermediate versions, never the latest.
func (s *RedisStore) Subscribe(ctx context.Context, id string) (<-chan *dmn.Game, func(), error) {
	sub := s.client.Subscribe(ctx, changeChannel(id))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribing to game %s: %w", id, err)
	}

	out := make(chan *dmn.Game, 1)
	subCtx, cancel := context.WithCancel(ctx)

	current, err := s.Get(ctx, id)
	if err != nil {
		cancel()
		_ = sub.Close()
		return nil, nil, err
	}
	out <- current

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				g, err := decode([]byte(msg.Payload))
				if err != nil {
					if s.logger != nil {
						s.logger.Printf("%s[WARN]%s dropping bad change payload for game %s: %s", config.LogWarnColor, config.LogColorReset, id, err)
					}
					continue
				}
				select {
				case out <- g:
				default:
					// replace the stale pending version with the new one
					select {
					case <-out:
					default:
					}
					out <- g
				}
			}
		}
	}()
	return out, cancel, nil
}

// AppendChat appends to the game's chat stream. Redis assigns the stream id,
// which is monotonic per game and doubles as the message id.
func (s *RedisStore) AppendChat(ctx context.Context, gameID string, msg dmn.ChatMessage) (string, error) {
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: chatStream(gameID),
		Values: map[string]interface{}{
			"sender": msg.SenderID,
			"text":   msg.Text,
			"sentAt": msg.SentAt.UTC().Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("appending chat: %w", err)
	}
	return id, nil
}

// ChatHistory returns up to limit most recent messages, oldest first.
func (s *RedisStore) ChatHistory(ctx context.Context, gameID string, limit int64) ([]dmn.ChatMessage, error) {
	entries, err := s.client.XRevRangeN(ctx, chatStream(gameID), "+", "-", limit).Result()
	if err != nil {
		return nil, fmt.Errorf("reading chat: %w", err)
	}
	msgs := make([]dmn.ChatMessage, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		msg := dmn.ChatMessage{ID: e.ID}
		if v, ok := e.Values["sender"].(string); ok {
			msg.SenderID = v
		}
		if v, ok := e.Values["text"].(string); ok {
			msg.Text = v
		}
		if v, ok := e.Values["sentAt"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				msg.SentAt = t
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// FindWaiting returns some waiting game id for the bracket.
func (s *RedisStore) FindWaiting(ctx context.Context, mode dmn.GameMode, gameType dmn.GameType) (string, error) {
	id, err := s.client.SRandMember(ctx, waitingSet(mode, gameType)).Result()
	if err == redis.Nil || id == "" {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying waiting games: %w", err)
	}
	return id, nil
}

// MarkWaiting indexes the game as joinable.
func (s *RedisStore) MarkWaiting(ctx context.Context, g *dmn.Game) error {
	return s.client.SAdd(ctx, waitingSet(g.Mode, g.GameType), g.ID).Err()
}

// UnmarkWaiting drops the game from the joinable index.
func (s *RedisStore) UnmarkWaiting(ctx context.Context, g *dmn.Game) error {
	return s.client.SRem(ctx, waitingSet(g.Mode, g.GameType), g.ID).Err()
}

// LiveGames lists every unfinished game id. Games enter the index on Create
// and leave it when a transaction commits a finished document.
func (s *RedisStore) LiveGames(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, liveSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("querying live games: %w", err)
	}
	return ids, nil
}
