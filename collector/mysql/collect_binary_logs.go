// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
	"github.com/netdata/netdata/go/mysqlstats/pkg/sqlquery"
)

const queryShowBinaryLogs = "SHOW BINARY LOGS"

func (c *Collector) collectBinaryLogs(ctx context.Context, cs *CounterSet) error {
	var sizes []bigcount.Value
	err := c.queryRecords(ctx, queryShowBinaryLogs, func(rec sqlquery.Record) {
		// File_size is missing on old servers. A zero size means the file was
		// removed from disk by hand.
		size, ok := rec.Get("file_size")
		if !ok {
			return
		}
		if v := bigcount.ToInt(size); bigcount.Compare(v, "0") > 0 {
			sizes = append(sizes, v)
		}
	})
	if err != nil {
		return err
	}

	cs.Set("binary_log_space", c.counter.Sum(sizes...))
	return nil
}
