package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"m3urepo/internal/logging"
)

const lockRetryDelay = 100 * time.Millisecond

// Locker is implemented by stores that can serialize writers across
// processes. The returned function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func() error, error)
}

// Lock acquires the exclusive catalog writer lock, retrying until ctx is
// done. In-memory filesystems have no other processes to exclude, so the
// lock is a no-op there.
func (d *Dir) Lock(ctx context.Context) (func() error, error) {
	if _, ok := d.fs.(*afero.OsFs); !ok {
		return func() error { return nil }, nil
	}
	if err := d.fs.MkdirAll(d.root, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog root: %w", err)
	}

	lock := flock.New(d.LockPath())
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog %s is locked by another writer", d.root)
	}
	d.logger.Debug("catalog lock acquired", logging.String("lock", d.LockPath()))
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("release catalog lock: %w", err)
		}
		return nil
	}, nil
}
