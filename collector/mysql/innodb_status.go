// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"bufio"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
)

const innodbStatusScanMaxToken = 1024 * 1024

// Anomaly describes a report token that was expected to be numeric but had no digits.
// The counter it feeds is set to zero.
type Anomaly struct {
	Line   string
	Index  int
	Token  string
	Caller string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("no digits in token %d ('%s') of line '%s' (%s)", a.Index, a.Token, a.Line, a.Caller)
}

// innodbParseState is threaded through the line scan.
type innodbParseState struct {
	counter   *bigcount.Counter
	cs        *CounterSet
	onAnomaly func(Anomaly)

	// set once "Trx id counter" is seen; transaction lines before it belong to other sections
	txnSeen bool

	spinWaits  []bigcount.Value
	spinRounds []bigcount.Value
	osWaits    []bigcount.Value

	line   string
	fields []string
}

// token returns the i-th whitespace separated field of the current line, "" when missing.
func (s *innodbParseState) token(i int) string {
	if i < len(s.fields) {
		return s.fields[i]
	}
	return ""
}

// num extracts the digits of the i-th field.
func (s *innodbParseState) num(i int) bigcount.Value {
	tok := s.token(i)
	v, ok := bigcount.Digits(tok)
	if !ok && s.onAnomaly != nil {
		var caller string
		if _, file, line, ok := runtime.Caller(1); ok {
			caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
		s.onAnomaly(Anomaly{Line: s.line, Index: i, Token: tok, Caller: caller})
	}
	return v
}

func (s *innodbParseState) set(name string, v bigcount.Value) {
	s.cs.Set(name, v)
}

func (s *innodbParseState) incr(name string, delta bigcount.Value) {
	s.cs.Incr(s.counter, name, delta)
}

type innodbRule struct {
	match func(s *innodbParseState, raw string) bool
	apply func(s *innodbParseState)
}

func hasPrefix(prefix string) func(*innodbParseState, string) bool {
	return func(s *innodbParseState, _ string) bool { return strings.HasPrefix(s.line, prefix) }
}

func hasPrefixInTxn(prefix string) func(*innodbParseState, string) bool {
	return func(s *innodbParseState, _ string) bool { return s.txnSeen && strings.HasPrefix(s.line, prefix) }
}

// containsAfterStart matches substr anywhere but at the very beginning of the line.
func containsAfterStart(substr string) func(*innodbParseState, string) bool {
	return func(s *innodbParseState, _ string) bool { return strings.Index(s.line, substr) > 0 }
}

// rawHasPrefix matches against the line before trimming.
func rawHasPrefix(prefix string) func(*innodbParseState, string) bool {
	return func(_ *innodbParseState, raw string) bool { return strings.HasPrefix(raw, prefix) }
}

// innodbRules are tried in order and the first match wins. Several shapes
// share words, so more specific rules come first.
var innodbRules = []innodbRule{
	// SEMAPHORES
	{
		// Mutex spin waits 79626940, rounds 157459864, OS waits 698719
		match: hasPrefix("Mutex spin waits"),
		apply: func(s *innodbParseState) {
			s.spinWaits = append(s.spinWaits, s.num(3))
			s.spinRounds = append(s.spinRounds, s.num(5))
			s.osWaits = append(s.osWaits, s.num(8))
		},
	},
	{
		// RW-shared spins 3859028, OS waits 2100750; RW-excl spins 4641946, OS waits 1530310
		match: hasPrefix("RW-shared spins"),
		apply: func(s *innodbParseState) {
			s.spinWaits = append(s.spinWaits, s.num(2), s.num(8))
			s.osWaits = append(s.osWaits, s.num(5), s.num(11))
		},
	},

	// TRANSACTIONS
	{
		// Trx id counter 0 1170664159
		// Trx id counter 861B144C
		match: hasPrefix("Trx id counter"),
		apply: func(s *innodbParseState) {
			s.set("innodb_transactions", s.counter.FromPair(s.token(3), s.token(4)))
			s.txnSeen = true
		},
	},
	{
		// Purge done for trx's n:o < 0 1170663853 undo n:o < 0 0
		// Purge done for trx's n:o < 861B135D undo n:o < 0
		match: hasPrefix("Purge done for trx"),
		apply: func(s *innodbParseState) {
			lo := s.token(7)
			if lo == "undo" {
				lo = ""
			}
			purged := s.counter.FromPair(s.token(6), lo)
			s.set("unpurged_txns", s.counter.Sub(s.cs.Value("innodb_transactions"), purged))
		},
	},
	{
		// History list length 132
		match: hasPrefix("History list length"),
		apply: func(s *innodbParseState) { s.set("history_list", s.num(3)) },
	},
	{
		// ---TRANSACTION 0, not started, process no 13510, OS thread id 1170446656
		match: hasPrefixInTxn("---TRANSACTION"),
		apply: func(s *innodbParseState) {
			s.incr("current_transactions", "1")
			if strings.Index(s.line, "ACTIVE") > 0 {
				s.incr("active_transactions", "1")
			}
		},
	},
	{
		// LOCK WAIT 2 lock struct(s), heap size 368
		match: hasPrefixInTxn("LOCK WAIT"),
		apply: func(s *innodbParseState) { s.incr("locked_transactions", "1") },
	},
	{
		// 1 read views open inside InnoDB
		match: containsAfterStart("read views open inside InnoDB"),
		apply: func(s *innodbParseState) { s.set("read_views", s.num(0)) },
	},
	{
		// mysql tables in use 2, locked 2
		match: hasPrefix("mysql tables in use"),
		apply: func(s *innodbParseState) { s.incr("innodb_locked_tables", s.num(6)) },
	},
	{
		// 23 lock struct(s), heap size 3024, undo log entries 27
		match: containsAfterStart("lock struct(s)"),
		apply: func(s *innodbParseState) { s.incr("innodb_lock_structs", s.num(0)) },
	},

	// FILE I/O
	{
		// 8782182 OS file reads, 15635445 OS file writes, 947800 OS fsyncs
		match: containsAfterStart(" OS file reads, "),
		apply: func(s *innodbParseState) {
			s.set("file_reads", s.num(0))
			s.set("file_writes", s.num(4))
			s.set("file_fsyncs", s.num(8))
		},
	},
	{
		// Pending normal aio reads: 0, aio writes: 0,
		match: hasPrefix("Pending normal aio reads:"),
		apply: func(s *innodbParseState) {
			s.set("pending_normal_aio_reads", s.num(4))
			s.set("pending_normal_aio_writes", s.num(7))
		},
	},
	{
		//  ibuf aio reads: 0, log i/o's: 0, sync i/o's: 0
		match: rawHasPrefix(" ibuf aio reads"),
		apply: func(s *innodbParseState) {
			s.set("pending_ibuf_aio_reads", s.num(3))
			s.set("pending_aio_log_ios", s.num(6))
			s.set("pending_aio_sync_ios", s.num(9))
		},
	},
	{
		// Pending flushes (fsync) log: 0; buffer pool: 0
		match: hasPrefix("Pending flushes (fsync)"),
		apply: func(s *innodbParseState) {
			s.set("pending_log_flushes", s.num(4))
			s.set("pending_buf_pool_flushes", s.num(7))
		},
	},

	// INSERT BUFFER AND ADAPTIVE HASH INDEX
	{
		// 19817685 inserts, 19817684 merged recs, 3552620 merges
		match: containsAfterStart(" merged recs, "),
		apply: func(s *innodbParseState) {
			s.set("ibuf_inserts", s.num(0))
			s.set("ibuf_merged", s.num(2))
			s.set("ibuf_merges", s.num(5))
		},
	},

	// LOG
	{
		// 520835887 log i/o's done, 17.28 log i/o's/second, 518724686 syncs, 2980893 checkpoints
		match: containsAfterStart(" log i/o's done, "),
		apply: func(s *innodbParseState) { s.set("log_writes", s.num(0)) },
	},
	{
		// 0 pending log writes, 0 pending chkp writes
		match: containsAfterStart(" pending log writes, "),
		apply: func(s *innodbParseState) {
			s.set("pending_log_writes", s.num(0))
			s.set("pending_chkp_writes", s.num(4))
		},
	},
	{
		// Log sequence number 125 3934414864
		// Log sequence number 13093949495856
		match: hasPrefix("Log sequence number"),
		apply: func(s *innodbParseState) {
			if len(s.fields) > 4 {
				s.set("innodb_lsn", s.counter.FromPair(s.token(3), s.token(4)))
			} else {
				s.set("innodb_lsn", s.num(3))
			}
		},
	},
	{
		// Log flushed up to   125 3934414864
		// Log flushed up to   13093948219327
		match: hasPrefix("Log flushed up to"),
		apply: func(s *innodbParseState) {
			if len(s.fields) > 5 {
				s.set("flushed_to", s.counter.FromPair(s.token(4), s.token(5)))
			} else {
				s.set("flushed_to", s.num(4))
			}
		},
	},

	// BUFFER POOL AND MEMORY
	{
		// Buffer pool size        1769471
		// not: Buffer pool size, bytes 28991012864
		match: hasPrefix("Buffer pool size "),
		apply: func(s *innodbParseState) { s.set("pool_size", s.num(3)) },
	},
	{
		// Free buffers            0
		match: hasPrefix("Free buffers"),
		apply: func(s *innodbParseState) { s.set("free_pages", s.num(2)) },
	},
	{
		// Database pages          1696503
		match: hasPrefix("Database pages"),
		apply: func(s *innodbParseState) { s.set("database_pages", s.num(2)) },
	},
	{
		// Modified db pages       160602
		match: hasPrefix("Modified db pages"),
		apply: func(s *innodbParseState) { s.set("modified_pages", s.num(3)) },
	},
	{
		// Pages read 15240822, created 1770238, written 21705836
		match: hasPrefix("Pages read"),
		apply: func(s *innodbParseState) {
			s.set("pages_read", s.num(2))
			s.set("pages_created", s.num(4))
			s.set("pages_written", s.num(6))
		},
	},

	// ROW OPERATIONS
	{
		// Number of rows inserted 50678311, updated 66425915, deleted 20605903, read 454561562
		match: hasPrefix("Number of rows inserted"),
		apply: func(s *innodbParseState) {
			s.set("rows_inserted", s.num(4))
			s.set("rows_updated", s.num(6))
			s.set("rows_deleted", s.num(8))
			s.set("rows_read", s.num(10))
		},
	},
	{
		// 0 queries inside InnoDB, 0 queries in queue
		match: containsAfterStart(" queries inside InnoDB, "),
		apply: func(s *innodbParseState) {
			s.set("queries_inside", s.num(0))
			s.set("queries_queued", s.num(4))
		},
	},
}

// ParseInnoDBStatus extracts counters from the text of SHOW ENGINE INNODB STATUS.
// Lines of unknown shape are ignored. onAnomaly, if not nil, is called for every
// numeric token without digits.
func ParseInnoDBStatus(text string, counter *bigcount.Counter, onAnomaly func(Anomaly)) (*CounterSet, error) {
	st := &innodbParseState{
		counter:   counter,
		cs:        NewCounterSet(),
		onAnomaly: onAnomaly,
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), innodbStatusScanMaxToken)

	for sc.Scan() {
		raw := sc.Text()
		st.line = strings.TrimSpace(raw)
		st.fields = strings.Fields(st.line)

		for _, rule := range innodbRules {
			if rule.match(st, raw) {
				rule.apply(st)
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan innodb status: %w", err)
	}

	st.set("spin_waits", counter.Sum(st.spinWaits...))
	st.set("spin_rounds", counter.Sum(st.spinRounds...))
	st.set("os_waits", counter.Sum(st.osWaits...))

	return st.cs, nil
}
