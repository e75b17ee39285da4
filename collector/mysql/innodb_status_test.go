// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
)

var (
	dataInnoDBStatusV50, _ = os.ReadFile("testdata/innodb_status_v5.0.txt")
	dataInnoDBStatusV55, _ = os.ReadFile("testdata/innodb_status_v5.5.txt")
)

func Test_testDataInnoDBIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataInnoDBStatusV50": dataInnoDBStatusV50,
		"dataInnoDBStatusV55": dataInnoDBStatusV55,
	} {
		require.NotEmpty(t, data, name)
	}
}

func TestParseInnoDBStatus(t *testing.T) {
	tests := map[string]struct {
		report        []byte
		tier          bigcount.Tier
		wantMetrics   map[string]string
		wantAnomalies int
	}{
		"v5.0 two-word counters": {
			report: dataInnoDBStatusV50,
			tier:   bigcount.TierArbitrary,
			wantMetrics: map[string]string{
				"spin_waits":                "88127914",
				"spin_rounds":               "157459864",
				"os_waits":                  "4329779",
				"innodb_transactions":       "1170664159",
				"unpurged_txns":             "306",
				"history_list":              "132",
				"current_transactions":      "3",
				"active_transactions":       "2",
				"locked_transactions":       "1",
				"innodb_locked_tables":      "3",
				"innodb_lock_structs":       "23",
				"read_views":                "1",
				"file_reads":                "8782182",
				"file_writes":               "15635445",
				"file_fsyncs":               "947800",
				"pending_normal_aio_reads":  "0",
				"pending_normal_aio_writes": "0",
				"pending_ibuf_aio_reads":    "0",
				"pending_aio_log_ios":       "0",
				"pending_aio_sync_ios":      "0",
				"pending_log_flushes":       "0",
				"pending_buf_pool_flushes":  "0",
				"ibuf_inserts":              "19817685",
				"ibuf_merged":               "19817684",
				"ibuf_merges":               "3552620",
				"innodb_lsn":                "540805326864",
				"flushed_to":                "540805326864",
				"pending_log_writes":        "0",
				"pending_chkp_writes":       "0",
				"log_writes":                "520835887",
				"pool_size":                 "131072",
				"free_pages":                "0",
				"database_pages":            "129312",
				"modified_pages":            "19832",
				"pages_read":                "15240822",
				"pages_created":             "1770238",
				"pages_written":             "21705836",
				"queries_inside":            "0",
				"queries_queued":            "0",
				"rows_inserted":             "50678311",
				"rows_updated":              "66425915",
				"rows_deleted":              "20605903",
				"rows_read":                 "454561562",
			},
		},
		"v5.5 hex counters": {
			report: dataInnoDBStatusV55,
			tier:   bigcount.TierDecimal,
			wantMetrics: map[string]string{
				"spin_waits":                "1",
				"spin_rounds":               "247280272495",
				"os_waits":                  "316513438",
				"innodb_transactions":       "2249921612",
				"unpurged_txns":             "239",
				"history_list":              "7",
				"current_transactions":      "2",
				"active_transactions":       "1",
				"innodb_lock_structs":       "2",
				"read_views":                "1",
				"file_reads":                "1093",
				"file_writes":               "7305",
				"file_fsyncs":               "2791",
				"pending_normal_aio_reads":  "0",
				"pending_normal_aio_writes": "0",
				"pending_ibuf_aio_reads":    "0",
				"pending_aio_log_ios":       "0",
				"pending_aio_sync_ios":      "0",
				"pending_log_flushes":       "0",
				"pending_buf_pool_flushes":  "0",
				"innodb_lsn":                "13093949495856",
				"flushed_to":                "13093948219327",
				"pending_log_writes":        "0",
				"pending_chkp_writes":       "0",
				"log_writes":                "1862",
				"pool_size":                 "8191",
				"free_pages":                "7286",
				"database_pages":            "904",
				"modified_pages":            "0",
				"pages_read":                "758",
				"pages_created":             "146",
				"pages_written":             "3968",
				"queries_inside":            "0",
				"queries_queued":            "0",
				"rows_inserted":             "12",
				"rows_updated":              "3",
				"rows_deleted":              "1",
				"rows_read":                 "27",
			},
			// "RW-shared spins 1, rounds 30, OS waits 0" has fewer fields than the older layout
			wantAnomalies: 3,
		},
		"empty report": {
			report: nil,
			tier:   bigcount.TierNative,
			wantMetrics: map[string]string{
				"spin_waits":  "0",
				"spin_rounds": "0",
				"os_waits":    "0",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var anomalies []Anomaly
			cs, err := ParseInnoDBStatus(string(test.report), bigcount.New(test.tier), func(a Anomaly) {
				anomalies = append(anomalies, a)
			})
			require.NoError(t, err)

			assert.Equal(t, test.wantMetrics, counterSetToMap(cs))
			assert.Len(t, anomalies, test.wantAnomalies)
		})
	}
}

func TestParseInnoDBStatus_SpinWaitsAccumulate(t *testing.T) {
	report := `
Mutex spin waits 79626940, rounds 157459864, OS waits 698719
Mutex spin waits 79626940, rounds 157459864, OS waits 698719
`
	cs, err := ParseInnoDBStatus(report, bigcount.Best(), nil)
	require.NoError(t, err)

	assert.Equal(t, bigcount.Value("159253880"), cs.Value("spin_waits"))
	assert.Equal(t, bigcount.Value("314919728"), cs.Value("spin_rounds"))
	assert.Equal(t, bigcount.Value("1397438"), cs.Value("os_waits"))
}

func TestParseInnoDBStatus_TransactionLinesNeedTrxCounter(t *testing.T) {
	tests := map[string]struct {
		report      string
		wantCurrent bigcount.Value
		wantLocked  bigcount.Value
	}{
		"before trx id counter": {
			report: `
---TRANSACTION 0 1170664158, ACTIVE 1 sec
LOCK WAIT 2 lock struct(s), heap size 368
Trx id counter 0 1170664159
`,
			wantCurrent: bigcount.Null,
			wantLocked:  bigcount.Null,
		},
		"after trx id counter": {
			report: `
Trx id counter 0 1170664159
---TRANSACTION 0 1170664158, ACTIVE 1 sec
LOCK WAIT 2 lock struct(s), heap size 368
`,
			wantCurrent: "1",
			wantLocked:  "1",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cs, err := ParseInnoDBStatus(test.report, bigcount.Best(), nil)
			require.NoError(t, err)

			assert.Equal(t, test.wantCurrent, cs.Value("current_transactions"))
			assert.Equal(t, test.wantLocked, cs.Value("locked_transactions"))
		})
	}
}

func TestParseInnoDBStatus_LockWaitBeforeTrxCounterCountsLockStructs(t *testing.T) {
	// without the transaction section the line falls through to the generic lock struct shape
	report := "LOCK WAIT 2 lock struct(s), heap size 368\n"

	var anomalies []Anomaly
	cs, err := ParseInnoDBStatus(report, bigcount.Best(), func(a Anomaly) { anomalies = append(anomalies, a) })
	require.NoError(t, err)

	assert.Equal(t, bigcount.Value("0"), cs.Value("innodb_lock_structs"))
	require.Len(t, anomalies, 1)
	assert.Equal(t, "LOCK", anomalies[0].Token)
	assert.Contains(t, anomalies[0].Caller, "innodb_status.go:")
}

func TestParseInnoDBStatus_IbufLineNeedsLeadingSpace(t *testing.T) {
	tests := map[string]struct {
		line string
		want bigcount.Value
	}{
		"leading space":    {line: " ibuf aio reads: 7, log i/o's: 1, sync i/o's: 2", want: "7"},
		"no leading space": {line: "ibuf aio reads: 7, log i/o's: 1, sync i/o's: 2", want: bigcount.Null},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cs, err := ParseInnoDBStatus(test.line, bigcount.Best(), nil)
			require.NoError(t, err)

			assert.Equal(t, test.want, cs.Value("pending_ibuf_aio_reads"))
		})
	}
}

func TestParseInnoDBStatus_BufferPoolSizeBytesIgnored(t *testing.T) {
	cs, err := ParseInnoDBStatus("Buffer pool size, bytes 134201344\n", bigcount.Best(), nil)
	require.NoError(t, err)

	assert.False(t, cs.Has("pool_size"))
}

func TestParseInnoDBStatus_PurgeWithoutTrxCounter(t *testing.T) {
	cs, err := ParseInnoDBStatus("Purge done for trx's n:o < 0 5 undo n:o < 0 0\n", bigcount.Best(), nil)
	require.NoError(t, err)

	assert.Equal(t, bigcount.Value("-5"), cs.Value("unpurged_txns"))
}

func TestParseInnoDBStatus_CounterPastUint64(t *testing.T) {
	report := "Log sequence number 4294967295 4294967295\nLog flushed up to   4294967295 4294967294\n"

	cs, err := ParseInnoDBStatus(report, bigcount.Best(), nil)
	require.NoError(t, err)

	assert.Equal(t, bigcount.Value("18446744073709551615"), cs.Value("innodb_lsn"))
	assert.Equal(t, bigcount.Value("18446744073709551614"), cs.Value("flushed_to"))
}

func TestParseInnoDBStatus_LineTooLong(t *testing.T) {
	report := strings.Repeat("a", innodbStatusScanMaxToken+1)

	_, err := ParseInnoDBStatus(report, bigcount.Best(), nil)

	assert.Error(t, err)
}

func counterSetToMap(cs *CounterSet) map[string]string {
	m := make(map[string]string, cs.Len())
	for name, v := range cs.values {
		m[name] = v.String()
	}
	return m
}
