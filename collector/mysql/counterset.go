// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
)

// CounterSet holds the counters observed in one snapshot, keyed by catalog name.
// A name that was never set is absent, which is different from zero.
type CounterSet struct {
	values map[string]bigcount.Value
}

func NewCounterSet() *CounterSet {
	return &CounterSet{values: make(map[string]bigcount.Value)}
}

// Set stores v under name. Names outside the catalog are rejected.
// Setting a null value removes the counter.
func (cs *CounterSet) Set(name string, v bigcount.Value) bool {
	if !catalog[name] {
		return false
	}
	if v.IsNull() {
		delete(cs.values, name)
		return true
	}
	cs.values[name] = v
	return true
}

func (cs *CounterSet) Get(name string) (bigcount.Value, bool) {
	v, ok := cs.values[name]
	return v, ok
}

// Value returns the counter or null when absent.
func (cs *CounterSet) Value(name string) bigcount.Value {
	return cs.values[name]
}

func (cs *CounterSet) Has(name string) bool {
	_, ok := cs.values[name]
	return ok
}

func (cs *CounterSet) Delete(name string) {
	delete(cs.values, name)
}

// Incr adds delta to name, an absent counter starting from zero.
func (cs *CounterSet) Incr(c *bigcount.Counter, name string, delta bigcount.Value) bool {
	return cs.Set(name, c.Add(cs.values[name], delta))
}

// Merge copies every counter of other into cs, overwriting existing ones.
func (cs *CounterSet) Merge(other *CounterSet) {
	if other == nil {
		return
	}
	for name, v := range other.values {
		cs.values[name] = v
	}
}

func (cs *CounterSet) Len() int { return len(cs.values) }
