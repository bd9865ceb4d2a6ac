package utils

import (
	"context"
	"sync"

	"bitbucket.org/akitdaekm/membership_backend/config"
)

var seqMutex sync.Mutex

// NextSequence allocates the next value of a named counter.
//
// Redis INCR is the fast path. When the counter key is fresh (INCR returned 1)
// or Redis is unavailable, the counter is seeded from the database via the
// caller's seed func, which must return the highest value already issued.
//
// Redis is a best-effort optimization only: correctness under concurrent
// allocation relies on the caller holding the MySQL advisory numbering lock
// for the duration of the allocation (see models.AcquireNumberingLock).
func NextSequence(ctx context.Context, key string, seed func(ctx context.Context) (int64, error)) (int64, error) {
	seqMutex.Lock()
	defer seqMutex.Unlock()

	n, err := config.GetRedisCounter(ctx, key)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Redis not configured; allocate straight from the DB high-water mark.
		base, err := seed(ctx)
		if err != nil {
			return 0, err
		}
		return base + 1, nil
	}
	if n == 1 {
		// Fresh key: redis does not know the history yet.
		base, err := seed(ctx)
		if err != nil {
			return 0, err
		}
		if base > 0 {
			n = base + 1
			if err := config.SetRedisCounter(ctx, key, n); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}

// ReleaseSequence hands the most recent allocation back after a rollback so
// committed values stay gapless. Only valid while the caller still holds the
// lock that serialized the allocation; the next NextSequence call re-issues
// the same value.
func ReleaseSequence(ctx context.Context, key string) error {
	seqMutex.Lock()
	defer seqMutex.Unlock()
	return config.DecrRedisCounter(ctx, key)
}
