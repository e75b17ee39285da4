// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = time.Millisecond * 100

func New(dir string) *Locker {
	return &Locker{
		suffix: ".mysqlstats.lock",
		dir:    dir,
		locks:  make(map[string]*flock.Flock),
	}
}

// Locker holds named flock(2) locks on files in dir. Locks conflict across processes
// and across Locker instances.
type Locker struct {
	suffix string
	dir    string
	locks  map[string]*flock.Flock
}

// LockWait retries until the lock is taken, timeout elapses or ctx is done.
// It reports false without an error when the wait timed out.
func (l *Locker) LockWait(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	filename := l.filename(name)

	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	locker := flock.New(filename)

	ok, err := tryLock(ctx, locker, timeout)
	if ok {
		l.locks[filename] = locker
	} else {
		_ = locker.Close()
	}

	return ok, err
}

func (l *Locker) Unlock(name string) {
	filename := l.filename(name)

	locker, ok := l.locks[filename]
	if !ok {
		return
	}

	delete(l.locks, filename)

	_ = locker.Close()
}

func tryLock(ctx context.Context, f *flock.Flock, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := f.TryLockContext(ctx, retryDelay)
	if err != nil && ctx.Err() != nil {
		return false, nil
	}
	return ok, err
}

func (l *Locker) filename(name string) string {
	return filepath.Join(l.dir, name+l.suffix)
}
