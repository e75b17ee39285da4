// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

const queryShowEngineInnoDBStatus = "SHOW /*!50000 ENGINE*/ INNODB STATUS"

// innodbOverrides lists global status values preferred over the ones parsed
// from the InnoDB report. Entries are applied in order, so a later entry wins
// when two share a target.
var innodbOverrides = []struct {
	status string
	metric string
}{
	{"Innodb_buffer_pool_pages_data", "database_pages"},
	{"Innodb_buffer_pool_pages_dirty", "modified_pages"},
	{"Innodb_buffer_pool_pages_free", "free_pages"},
	{"Innodb_buffer_pool_pages_total", "pool_size"},
	{"Innodb_buffer_pool_reads", "pages_read"},
	{"Innodb_data_fsyncs", "file_fsyncs"},
	{"Innodb_data_pending_reads", "pending_normal_aio_reads"},
	{"Innodb_data_pending_writes", "pending_normal_aio_writes"},
	{"Innodb_os_log_pending_fsyncs", "pending_log_flushes"},
	{"Innodb_pages_created", "pages_created"},
	{"Innodb_pages_read", "pages_read"},
	{"Innodb_pages_written", "pages_written"},
	{"Innodb_rows_deleted", "rows_deleted"},
	{"Innodb_rows_inserted", "rows_inserted"},
	{"Innodb_rows_read", "rows_read"},
	{"Innodb_rows_updated", "rows_updated"},
}

func (c *Collector) collectInnoDBStatus(ctx context.Context, vars serverVars, cs *CounterSet) error {
	var status string
	err := c.queryRecords(ctx, queryShowEngineInnoDBStatus, func(rec sqlquery.Record) {
		status, _ = rec.Get("status")
	})
	if err != nil {
		return err
	}

	var onAnomaly func(Anomaly)
	if c.Config.Debug {
		onAnomaly = func(a Anomaly) { c.Debugf("innodb status: %s", a) }
	}

	parsed, err := ParseInnoDBStatus(status, c.counter, onAnomaly)
	if err != nil {
		return &QueryError{Query: queryShowEngineInnoDBStatus, Err: err}
	}

	applyInnoDBOverrides(vars, parsed)
	cs.Merge(parsed)

	return nil
}

func applyInnoDBOverrides(vars serverVars, parsed *CounterSet) {
	for _, o := range innodbOverrides {
		if v, ok := vars.lookup(o.status); ok {
			parsed.Set(o.metric, bigcount.ToInt(v))
		}
	}
}

// setLogMetrics derives redo log counters from the report's sequence numbers.
func (c *Collector) setLogMetrics(cs *CounterSet) {
	lsn, hasLSN := cs.Get("innodb_lsn")
	flushed, hasFlushed := cs.Get("flushed_to")

	if hasLSN {
		cs.Set("log_bytes_written", lsn)
	}
	if hasFlushed {
		cs.Set("log_bytes_flushed", flushed)
	}
	if hasLSN && hasFlushed {
		cs.Set("unflushed_log", c.counter.Sub(lsn, flushed))
	}
}

// clampUnflushedLog raises a non-zero unflushed_log to at least innodb_log_buffer_size.
// Note the direction: it is a floor, not an upper bound.
func (c *Collector) clampUnflushedLog(cs *CounterSet) {
	v, ok := cs.Get("unflushed_log")
	if !ok || bigcount.Compare(v, "0") == 0 {
		return
	}
	buf, ok := cs.Get("innodb_log_buffer_size")
	if !ok {
		buf = "0"
	}
	cs.Set("unflushed_log", bigcount.Max(v, buf))
}
