// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/netdata/netdata/go/mysqlstats/pkg/confopt"
	"github.com/netdata/netdata/go/mysqlstats/pkg/filelock"
	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

const (
	queryGetLock     = "SELECT GET_LOCK(?, ?)"
	queryReleaseLock = "SELECT RELEASE_LOCK(?)"
)

// NewAdvisoryLock returns a Locker backed by the server's named locks.
// Named locks belong to a session, so q must keep using one connection.
func NewAdvisoryLock(q sqlquery.Queryer) *AdvisoryLock {
	return &AdvisoryLock{db: q}
}

type AdvisoryLock struct {
	db sqlquery.Queryer
}

func (l *AdvisoryLock) Lock(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	// GET_LOCK returns 1 on success, 0 on timeout and NULL on error
	v, err := l.queryValue(ctx, queryGetLock, name, confopt.Duration(timeout).Seconds())
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (l *AdvisoryLock) Unlock(ctx context.Context, name string) error {
	_, err := l.queryValue(ctx, queryReleaseLock, name)
	return err
}

func (l *AdvisoryLock) queryValue(ctx context.Context, query string, args ...any) (string, error) {
	var value string
	err := sqlquery.QueryRows(ctx, l.db, query, func(_, v string, _ bool) {
		value = v
	}, args...)
	if err != nil {
		return "", fmt.Errorf("error on executing query '%s': %v", query, err)
	}
	return value, nil
}

// NewFileLock returns a Locker taking flock(2) locks on files in dir.
// It serializes pollers of one machine only.
func NewFileLock(dir string) *FileLock {
	return &FileLock{locker: filelock.New(dir)}
}

type FileLock struct {
	locker *filelock.Locker
}

func (l *FileLock) Lock(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	return l.locker.LockWait(ctx, name, timeout)
}

func (l *FileLock) Unlock(_ context.Context, name string) error {
	l.locker.Unlock(name)
	return nil
}
