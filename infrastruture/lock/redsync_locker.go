// Package lock provides a redis-backed distributed mutex.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

const lockExpiry = 8 * time.Second

// RedsyncLocker implements a named distributed mutex on redsync.
type RedsyncLocker struct {
	rs *redsync.Redsync
}

// New builds a locker over the given redis client.
func New(client *goredislib.Client) *RedsyncLocker {
	pool := goredis.NewPool(client)
	return &RedsyncLocker{rs: redsync.New(pool)}
}

// Lock acquires the named mutex and returns its release func.
func (l *RedsyncLocker) Lock(ctx context.Context, name string) (func() error, error) {
	mutex := l.rs.NewMutex("lock:"+name, redsync.WithExpiry(lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", name, err)
	}
	return func() error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("lock " + name + " was not held")
		}
		return nil
	}, nil
}
