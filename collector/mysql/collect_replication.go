// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

const (
	queryShowReplicaStatus = "SHOW REPLICA STATUS"
	queryShowSlaveStatus   = "SHOW SLAVE STATUS"
	queryHeartbeatFmt      = "SELECT GREATEST(0, UNIX_TIMESTAMP() - UNIX_TIMESTAMP(ts) - 1) FROM %s WHERE id = 1"
)

var replicaStatusMinVer = semver.Version{Major: 8, Minor: 0, Patch: 22}

func (c *Collector) replicationQuery(version *semver.Version) string {
	if version != nil && version.GTE(replicaStatusMinVer) {
		return queryShowReplicaStatus
	}
	return queryShowSlaveStatus
}

// collectReplication records relay log space and lag. slave_running and
// slave_stopped form a pair: the current state carries the lag, the other one is zero.
func (c *Collector) collectReplication(ctx context.Context, version *semver.Version, cs *CounterSet) error {
	var rows []sqlquery.Record
	err := c.queryRecords(ctx, c.replicationQuery(version), func(rec sqlquery.Record) {
		rows = append(rows, rec)
	})
	if err != nil {
		return err
	}

	// a server replicating from several sources reports one row per channel, the last one wins
	for _, row := range rows {
		relay, ok := row.Get("relay_log_space")
		setNullable(cs, "relay_log_space", relay, ok)

		lag, ok := firstOf(row, "seconds_behind_master", "seconds_behind_source")
		if c.heartbeatTable != "" {
			if lag, ok, err = c.queryHeartbeatLag(ctx); err != nil {
				return err
			}
		}
		setNullable(cs, "slave_lag", lag, ok)

		lagValue := cs.Value("slave_lag")
		running, _ := firstOf(row, "slave_sql_running", "replica_sql_running")
		if running == "Yes" {
			cs.Set("slave_running", lagValue)
			cs.Set("slave_stopped", "0")
		} else {
			cs.Set("slave_running", "0")
			cs.Set("slave_stopped", lagValue)
		}
	}
	return nil
}

func (c *Collector) queryHeartbeatLag(ctx context.Context) (string, bool, error) {
	q := fmt.Sprintf(queryHeartbeatFmt, c.heartbeatTable)

	var lag string
	var found bool
	err := c.queryRecords(ctx, q, func(rec sqlquery.Record) {
		if found {
			return
		}
		for _, v := range rec {
			lag, found = v.String, v.Valid
		}
	})
	if err != nil {
		return "", false, err
	}
	return lag, found, nil
}

func firstOf(rec sqlquery.Record, columns ...string) (string, bool) {
	for _, col := range columns {
		if rec.Has(col) {
			return rec.Get(col)
		}
	}
	return "", false
}

func setNullable(cs *CounterSet, name, value string, ok bool) {
	if !ok || value == "" {
		cs.Delete(name)
		return
	}
	cs.Set(name, bigcount.ToInt(value))
}
