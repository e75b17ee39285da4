// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"database/sql"
	"time"

	"github.com/netdata/netdata/go/mysqlstats/cache"
	"github.com/netdata/netdata/go/mysqlstats/collector/mysql"
	"github.com/netdata/netdata/go/mysqlstats/logger"
	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
)

func New(cfg Config, log *logger.Logger) *Agent {
	return &Agent{
		Logger: log,
		Config: cfg,
		openDB: openConnection,
	}
}

// Agent runs one poll: connect, serve from or refresh the snapshot cache,
// and filter the requested items.
type Agent struct {
	*logger.Logger
	Config Config

	openDB func(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error)
}

// Run returns the output line for the configured items.
func (a *Agent) Run(ctx context.Context) (string, error) {
	if err := a.Config.Validate(); err != nil {
		return "", err
	}

	tier, _ := bigcount.ParseTier(a.Config.Arithmetic)
	if tier.Lossy() {
		a.Noticef("arithmetic tier '%s' may lose precision on large counters", tier)
	}
	counter := bigcount.New(tier)

	dsn := a.Config.DSN()
	a.Debugf("connecting to '%s'", safeDSN(dsn))

	db, err := a.openDB(ctx, dsn, a.Config.Timeout.Duration())
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	collr, err := mysql.New(db, mysql.Config{
		Checks:    a.Config.Checks,
		Heartbeat: a.Config.Heartbeat,
		Timeout:   a.Config.Timeout,
		Debug:     a.Config.Debug,
	}, counter, a.Logger.With("component", "collector"))
	if err != nil {
		return "", err
	}

	snapshots, err := cache.New(cache.Config{
		Dir:          a.Config.CacheDir,
		PollInterval: a.Config.PollInterval.Duration(),
		Disabled:     a.Config.NoCache,
		LockName:     a.Config.Lock.Name,
		PerHost:      a.Config.Lock.PerHost,
	}, a.locker(db), a.Logger.With("component", "cache"))
	if err != nil {
		return "", err
	}

	line, err := snapshots.Do(ctx, a.Config.Host, func(ctx context.Context) (string, error) {
		cs, err := collr.Collect(ctx)
		if err != nil {
			return "", err
		}
		a.Debugf("collected %d counters", cs.Len())
		return mysql.Encode(cs), nil
	})
	if err != nil {
		return "", err
	}

	return mysql.FilterItems(line, a.Config.Items), nil
}

func (a *Agent) locker(db *sql.DB) cache.Locker {
	if a.Config.NoCache {
		return nil
	}
	if a.Config.Lock.Mode == LockModeFile {
		return cache.NewFileLock(a.Config.CacheDir)
	}
	return cache.NewAdvisoryLock(db)
}
