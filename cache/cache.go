// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache lets concurrent pollers of one server share a snapshot.
//
// A snapshot is kept in a per-host file and reused while younger than half the
// poll interval. Reading and refreshing happen under a named lock, so while the
// lock is held nobody else runs a full collection for that lock name.
package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/netdata/netdata/go/mysqlstats/logger"
)

const (
	DefaultLockName = "cacti_monitoring"
	fileSuffix      = "-mysql_cacti_stats.txt"

	lockWaitReport = time.Second
)

// Locker is a named mutual exclusion lock shared between processes.
type Locker interface {
	// Lock waits up to timeout and reports whether the lock was taken.
	Lock(ctx context.Context, name string, timeout time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}

// CollectFunc produces a fresh encoded snapshot.
type CollectFunc func(ctx context.Context) (string, error)

type Config struct {
	Dir          string
	PollInterval time.Duration
	Disabled     bool
	LockName     string
	// PerHost appends the host to the lock name, so different hosts no longer wait for each other.
	PerHost bool
}

func New(cfg Config, locker Locker, log *logger.Logger) (*Cache, error) {
	if cfg.Disabled {
		return &Cache{Logger: log, Config: cfg, now: time.Now}, nil
	}
	if locker == nil {
		return nil, errors.New("cache: nil locker")
	}
	if cfg.Dir == "" {
		return nil, errors.New("cache: directory not set")
	}
	if cfg.LockName == "" {
		cfg.LockName = DefaultLockName
	}
	return &Cache{Logger: log, Config: cfg, locker: locker, now: time.Now}, nil
}

type Cache struct {
	*logger.Logger
	Config

	locker Locker
	now    func() time.Time
}

// Path returns the snapshot file of host.
func (c *Cache) Path(host string) string {
	return filepath.Join(c.Dir, sanitizeHost(host)+fileSuffix)
}

// Do returns the cached snapshot of host if it is fresh, otherwise it runs
// collect and stores its result. With caching disabled collect is called
// directly and nothing on disk is touched.
func (c *Cache) Do(ctx context.Context, host string, collect CollectFunc) (string, error) {
	if c.Disabled {
		return collect(ctx)
	}

	path := c.Path(host)
	name := c.lockName(host)

	start := c.now()
	locked, err := c.locker.Lock(ctx, name, c.PollInterval)
	if err != nil {
		c.Warningf("error on acquiring lock '%s': %v", name, err)
	}
	if wait := c.now().Sub(start); locked && wait >= lockWaitReport {
		c.Infof("waited %s for lock '%s'", wait.Round(time.Millisecond), name)
	}

	if locked {
		defer c.unlock(ctx, name)

		if line, ok := c.readFresh(path); ok {
			c.Debugf("using cached snapshot '%s'", path)
			return line, nil
		}
	} else {
		c.Warningf("lock '%s' not acquired within %s, collecting without it", name, c.PollInterval)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &CacheWriteError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	line, err := collect(ctx)
	if err != nil {
		return "", err
	}

	if _, err := f.WriteString(line); err != nil {
		return "", &CacheWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &CacheWriteError{Path: path, Err: err}
	}

	return line, nil
}

func (c *Cache) readFresh(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		return "", false
	}
	if age := c.now().Sub(fi.ModTime()); age >= c.PollInterval/2 {
		c.Debugf("cached snapshot '%s' is stale (age %s)", path, age.Round(time.Second))
		return "", false
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		c.Debugf("error on reading cached snapshot: %v", err)
		return "", false
	}

	line, _, _ := strings.Cut(string(bs), "\n")
	if line == "" {
		c.Debugf("cached snapshot '%s' has no content", path)
		return "", false
	}
	return line, true
}

func (c *Cache) unlock(ctx context.Context, name string) {
	if err := c.locker.Unlock(ctx, name); err != nil {
		c.Warningf("error on releasing lock '%s': %v", name, err)
	}
}

func (c *Cache) lockName(host string) string {
	return LockName(c.LockName, host, c.PerHost)
}

// LockName returns the lock taken around the snapshot of host.
func LockName(name, host string, perHost bool) string {
	if perHost {
		return name + "_" + sanitizeHost(host)
	}
	return name
}

func sanitizeHost(host string) string {
	return strings.NewReplacer(":", "", "/", "_").Replace(host)
}
