// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"
	"strings"

	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

const (
	queryShowProcessList = "SHOW PROCESSLIST"

	statePrefix = "State_"
	stateNone   = "State_none"
	stateOther  = "State_other"
)

// collectProcessList counts connections per thread state. Only the states of
// the schema have a bucket, everything else is State_other.
func (c *Collector) collectProcessList(ctx context.Context, cs *CounterSet) error {
	return c.queryRecords(ctx, queryShowProcessList, func(rec sqlquery.Record) {
		cs.Incr(c.counter, stateBucket(rec), "1")
	})
}

func stateBucket(rec sqlquery.Record) string {
	state, ok := rec.Get("state")
	if !ok {
		return stateOther
	}
	if state == "" {
		return stateNone
	}
	name := statePrefix + strings.ReplaceAll(strings.ToLower(state), " ", "_")
	if stateBuckets[name] {
		return name
	}
	return stateOther
}
