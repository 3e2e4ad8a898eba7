package i

import "context"

// Locker provides a distributed mutex keyed by name. Unlock releases it.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func() error, err error)
}
