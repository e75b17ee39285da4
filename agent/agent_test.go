// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/mysqlstats/pkg/confopt"
)

const (
	testQueryGlobalStatus = "SHOW /*!50002 GLOBAL */ STATUS"
	testQueryVariables    = "SHOW VARIABLES"
	testQueryGetLock      = "SELECT GET_LOCK(?, ?)"
	testQueryReleaseLock  = "SELECT RELEASE_LOCK(?)"
)

func TestAgent_Run(t *testing.T) {
	tests := map[string]struct {
		prepareConfig func(cfg *Config)
		prepareMock   func(m sqlmock.Sqlmock)
		wantLine      string
	}{
		"server lock": {
			prepareMock: func(m sqlmock.Sqlmock) {
				expectGetLock(m, "1")
				expectServerVars(m)
				expectReleaseLock(m)
			},
			wantLine: "a0:10 a1:2 a4:-1",
		},
		"server lock not acquired": {
			prepareMock: func(m sqlmock.Sqlmock) {
				expectGetLock(m, "0")
				expectServerVars(m)
			},
			wantLine: "a0:10 a1:2 a4:-1",
		},
		"file lock": {
			prepareConfig: func(cfg *Config) { cfg.Lock.Mode = LockModeFile },
			prepareMock:   expectServerVars,
			wantLine:      "a0:10 a1:2 a4:-1",
		},
		"no cache": {
			prepareConfig: func(cfg *Config) { cfg.NoCache = true },
			prepareMock:   expectServerVars,
			wantLine:      "a0:10 a1:2 a4:-1",
		},
		"items order follows the schema": {
			prepareConfig: func(cfg *Config) {
				cfg.NoCache = true
				cfg.Items = []string{"a4", "a0"}
			},
			prepareMock: expectServerVars,
			wantLine:    "a0:10 a4:-1",
		},
		"unknown items": {
			prepareConfig: func(cfg *Config) {
				cfg.NoCache = true
				cfg.Items = []string{"zz"}
			},
			prepareMock: expectServerVars,
			wantLine:    "",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			cfg := prepareConfig(t)
			if test.prepareConfig != nil {
				test.prepareConfig(&cfg)
			}
			test.prepareMock(mock)

			a := New(cfg, nil)
			a.openDB = func(context.Context, string, time.Duration) (*sql.DB, error) { return db, nil }

			line, err := a.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, test.wantLine, line)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAgent_Run_FreshSnapshotIsNotCollectedAgain(t *testing.T) {
	cfg := prepareConfig(t)

	first, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	expectGetLock(mock, "1")
	expectServerVars(mock)
	expectReleaseLock(mock)

	a := New(cfg, nil)
	a.openDB = func(context.Context, string, time.Duration) (*sql.DB, error) { return first, nil }

	want, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	second, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	expectGetLock(mock, "1")
	expectReleaseLock(mock)

	a = New(cfg, nil)
	a.openDB = func(context.Context, string, time.Duration) (*sql.DB, error) { return second, nil }

	got, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())

	bs, err := os.ReadFile(filepath.Join(cfg.CacheDir, "db1-mysql_cacti_stats.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "a0:10 a1:2 a2:-1")
}

func TestAgent_Run_Fails(t *testing.T) {
	tests := map[string]struct {
		prepareConfig func(cfg *Config)
		openErr       error
		wantOpen      bool
		check         func(t *testing.T, err error)
	}{
		"connection error": {
			openErr:  &ConnectionError{DSN: "cactiuser:xxxxxxxxx@tcp(db1:3306)/", Err: errors.New("mock error")},
			wantOpen: true,
			check: func(t *testing.T, err error) {
				var ce *ConnectionError
				assert.True(t, errors.As(err, &ce))
			},
		},
		"invalid config": {
			prepareConfig: func(cfg *Config) { cfg.Host = "" },
			wantOpen:      false,
		},
		"invalid heartbeat table": {
			prepareConfig: func(cfg *Config) { cfg.Heartbeat = "db.hb; DROP TABLE t" },
			wantOpen:      true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			cfg := prepareConfig(t)
			if test.prepareConfig != nil {
				test.prepareConfig(&cfg)
			}

			var opened bool
			a := New(cfg, nil)
			a.openDB = func(context.Context, string, time.Duration) (*sql.DB, error) {
				opened = true
				if test.openErr != nil {
					return nil, test.openErr
				}
				return db, nil
			}

			_, err = a.Run(context.Background())
			require.Error(t, err)

			assert.Equal(t, test.wantOpen, opened)
			if test.check != nil {
				test.check(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func prepareConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Host = "db1"
	cfg.CacheDir = t.TempDir()
	cfg.Checks.InnoDB = false
	cfg.Checks.Master = false
	cfg.Checks.Slave = false
	cfg.Checks.Procs = false
	cfg.Timeout = confopt.Duration(time.Second)
	cfg.Items = []string{"a0", "a1", "a4"}
	return cfg
}

func expectGetLock(m sqlmock.Sqlmock, result string) {
	m.ExpectQuery(testQueryGetLock).
		WithArgs("cacti_monitoring", int64(300)).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK('cacti_monitoring', 300)"}).AddRow(result))
}

func expectReleaseLock(m sqlmock.Sqlmock) {
	m.ExpectQuery(testQueryReleaseLock).
		WithArgs("cacti_monitoring").
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK('cacti_monitoring')"}).AddRow("1"))
}

func expectServerVars(m sqlmock.Sqlmock) {
	m.ExpectQuery(testQueryGlobalStatus).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).
			AddRow("Key_read_requests", "10").
			AddRow("Key_reads", "2").
			AddRow("Uptime", "3600"))
	m.ExpectQuery(testQueryVariables).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).
			AddRow("version", "5.7.44").
			AddRow("log_bin", "OFF"))
}
