// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"strings"
)

// absentValue is printed for counters that were not observed. Every real
// counter is non-negative, so graphing tools treat it as missing data.
const absentValue = "-1"

// Encode renders cs as space separated code:value pairs in schema order.
func Encode(cs *CounterSet) string {
	var sb strings.Builder
	for i, m := range schema {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.code)
		sb.WriteByte(':')
		if v, ok := cs.Get(m.name); ok {
			sb.WriteString(v.String())
		} else {
			sb.WriteString(absentValue)
		}
	}
	return sb.String()
}

// FilterItems keeps the pairs of an encoded line whose code is listed in items.
// Pair order is the order of the line.
func FilterItems(line string, items []string) string {
	wanted := make(map[string]bool, len(items))
	for _, item := range items {
		wanted[strings.TrimSpace(item)] = true
	}

	var out []string
	for _, pair := range strings.Split(line, " ") {
		if len(pair) < 2 {
			continue
		}
		if wanted[pair[:2]] {
			out = append(out, pair)
		}
	}
	return strings.Join(out, " ")
}
