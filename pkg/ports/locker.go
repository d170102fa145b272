package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock. Releasing a lock that
// already expired and was taken by another replica must leave the new owner alone.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes updates of one form session across server replicas that
// share a StateStore. The session manager holds it around every load, mutate and save
// cycle, keyed by session ID, on top of its in-process lock.
type DistributedLocker interface {
	// Lock waits until key is free or ctx is done. ttl bounds how long a crashed
	// holder can keep the session blocked.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
