// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/netdata/netdata/go/mysqlstats/logger"
	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
	"github.com/netdata/netdata/go/mysqlstats/pkg/confopt"
	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

// Checks toggles the optional parts of the query catalog.
type Checks struct {
	InnoDB bool `yaml:"innodb"`
	Master bool `yaml:"master"`
	Slave  bool `yaml:"slave"`
	Procs  bool `yaml:"procs"`
}

type Config struct {
	Checks    Checks
	Heartbeat string
	Timeout   confopt.Duration
	// Debug makes query failures fatal and reports report parsing anomalies.
	Debug bool
}

var reHeartbeatTable = regexp.MustCompile(`^[A-Za-z0-9_$]+(\.[A-Za-z0-9_$]+)?$`)

// New returns a Collector issuing its queries through q.
func New(q sqlquery.Queryer, cfg Config, counter *bigcount.Counter, log *logger.Logger) (*Collector, error) {
	if q == nil {
		return nil, errors.New("collector: nil query source")
	}
	if counter == nil {
		counter = bigcount.Best()
	}

	var heartbeat string
	if cfg.Heartbeat != "" {
		if !reHeartbeatTable.MatchString(cfg.Heartbeat) {
			return nil, fmt.Errorf("collector: invalid heartbeat table '%s' (expected 'db.table' or 'table')", cfg.Heartbeat)
		}
		heartbeat = quoteIdentifier(cfg.Heartbeat)
	}

	return &Collector{
		Logger:         log,
		Config:         cfg,
		db:             q,
		counter:        counter,
		heartbeatTable: heartbeat,
	}, nil
}

type Collector struct {
	*logger.Logger
	Config

	db      sqlquery.Queryer
	counter *bigcount.Counter

	heartbeatTable string
}

// Collect runs the query catalog once and returns the merged counters.
// Query failures are returned only in debug mode. Otherwise the affected
// counters stay absent and collection goes on.
func (c *Collector) Collect(ctx context.Context) (*CounterSet, error) {
	cs := NewCounterSet()

	vars, err := c.collectServerVars(ctx)
	if err != nil {
		return nil, err
	}
	vars.copyTo(cs)
	setLegacyAliases(vars, cs)

	version := c.parseVersion(vars)

	if c.Checks.Slave {
		if err := c.handleQueryError(c.collectReplication(ctx, version, cs)); err != nil {
			return nil, err
		}
	}

	if c.Checks.Master && vars.get("log_bin") == "ON" {
		if err := c.handleQueryError(c.collectBinaryLogs(ctx, cs)); err != nil {
			return nil, err
		}
	}

	if c.Checks.Procs {
		if err := c.handleQueryError(c.collectProcessList(ctx, cs)); err != nil {
			return nil, err
		}
	}

	if c.Checks.InnoDB && vars.hasInnoDB() {
		if err := c.handleQueryError(c.collectInnoDBStatus(ctx, vars, cs)); err != nil {
			return nil, err
		}
	}

	c.setLogMetrics(cs)
	c.clampUnflushedLog(cs)

	return cs, nil
}

func (c *Collector) handleQueryError(err error) error {
	if err == nil {
		return nil
	}
	if c.Config.Debug {
		return err
	}
	c.Debugf("%v", err)
	return nil
}

// queryContext bounds a single statement by the configured timeout.
func (c *Collector) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout.Duration() <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout.Duration())
}

func (c *Collector) queryRows(ctx context.Context, query string, assign sqlquery.AssignFunc, args ...any) error {
	ctx, cancel := c.queryContext(ctx)
	defer cancel()

	c.Debugf("executing query: '%s'", query)
	if err := sqlquery.QueryRows(ctx, c.db, query, assign, args...); err != nil {
		return &QueryError{Query: query, Err: err}
	}
	return nil
}

func (c *Collector) queryRecords(ctx context.Context, query string, fn sqlquery.RecordFunc, args ...any) error {
	ctx, cancel := c.queryContext(ctx)
	defer cancel()

	c.Debugf("executing query: '%s'", query)
	if err := sqlquery.QueryRecords(ctx, c.db, query, fn, args...); err != nil {
		return &QueryError{Query: query, Err: err}
	}
	return nil
}

// version string is not always valid semver (ex.: 8.0.22-0ubuntu0.20.04.2)
var reVersionCore = regexp.MustCompile(`^\d+\.\d+\.\d+`)

func (c *Collector) parseVersion(vars serverVars) *semver.Version {
	version := vars.get("version")
	s := reVersionCore.FindString(version)
	if s == "" {
		c.Debugf("couldn't parse version string '%s'", version)
		return nil
	}
	ver, err := semver.New(s)
	if err != nil {
		c.Debugf("couldn't parse version string '%s': %v", s, err)
		return nil
	}
	return ver
}

func quoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + p + "`"
	}
	return strings.Join(parts, ".")
}
