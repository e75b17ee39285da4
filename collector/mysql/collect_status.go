// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"context"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
)

const (
	queryShowGlobalStatus = "SHOW /*!50002 GLOBAL */ STATUS"
	queryShowVariables    = "SHOW VARIABLES"
)

// serverVars holds raw status and variable values by server name.
// NULL and empty values are not stored.
type serverVars map[string]string

func (v serverVars) get(name string) string { return v[name] }

func (v serverVars) lookup(name string) (string, bool) {
	s, ok := v[name]
	return s, ok
}

// copyTo stores every catalog counter found among the server values.
func (v serverVars) copyTo(cs *CounterSet) {
	for name, value := range v {
		if catalog[name] {
			cs.Set(name, bigcount.ToInt(value))
		}
	}
}

func (v serverVars) hasInnoDB() bool {
	if have, ok := v.lookup("have_innodb"); ok {
		return have == "YES"
	}
	// have_innodb was removed in 5.6, the engine is always compiled in since
	_, ok := v.lookup("innodb_version")
	return ok
}

// collectServerVars reads global status then variables. A variable shadows a
// status value of the same name. Outside debug mode a failed query only loses
// its own values.
func (c *Collector) collectServerVars(ctx context.Context) (serverVars, error) {
	vars := make(serverVars)

	for _, q := range []string{queryShowGlobalStatus, queryShowVariables} {
		var name string
		err := c.queryRows(ctx, q, func(column, value string, _ bool) {
			switch column {
			case "Variable_name":
				name = value
			case "Value":
				if value != "" {
					vars[name] = value
				}
			}
		})
		if err := c.handleQueryError(err); err != nil {
			return vars, err
		}
	}

	return vars, nil
}

// setLegacyAliases keeps counters renamed by newer servers available under the
// name graph templates use.
func setLegacyAliases(vars serverVars, cs *CounterSet) {
	if v, ok := vars.lookup("table_open_cache"); ok && !cs.Has("table_cache") {
		cs.Set("table_cache", bigcount.ToInt(v))
	}
}
