// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import "strings"

// metric binds a canonical counter name to its two-character output code.
type metric struct {
	name string
	code string
}

// schema is the output layout. Graph templates address values by code, so
// neither the order nor the codes may change.
var schema = []metric{
	{"Key_read_requests", "a0"},
	{"Key_reads", "a1"},
	{"Key_write_requests", "a2"},
	{"Key_writes", "a3"},
	{"history_list", "a4"},
	{"innodb_transactions", "a5"},
	{"read_views", "a6"},
	{"current_transactions", "a7"},
	{"locked_transactions", "a8"},
	{"active_transactions", "a9"},
	{"pool_size", "aa"},
	{"free_pages", "ab"},
	{"database_pages", "ac"},
	{"modified_pages", "ad"},
	{"pages_read", "ae"},
	{"pages_created", "af"},
	{"pages_written", "ag"},
	{"file_fsyncs", "ah"},
	{"file_reads", "ai"},
	{"file_writes", "aj"},
	{"log_writes", "ak"},
	{"pending_aio_log_ios", "al"},
	{"pending_aio_sync_ios", "am"},
	{"pending_buf_pool_flushes", "an"},
	{"pending_chkp_writes", "ao"},
	{"pending_ibuf_aio_reads", "ap"},
	{"pending_log_flushes", "aq"},
	{"pending_log_writes", "ar"},
	{"pending_normal_aio_reads", "as"},
	{"pending_normal_aio_writes", "at"},
	{"ibuf_inserts", "au"},
	{"ibuf_merged", "av"},
	{"ibuf_merges", "aw"},
	{"spin_waits", "ax"},
	{"spin_rounds", "ay"},
	{"os_waits", "az"},
	{"rows_inserted", "b0"},
	{"rows_updated", "b1"},
	{"rows_deleted", "b2"},
	{"rows_read", "b3"},
	{"Table_locks_waited", "b4"},
	{"Table_locks_immediate", "b5"},
	{"Slow_queries", "b6"},
	{"Open_files", "b7"},
	{"Open_tables", "b8"},
	{"Opened_tables", "b9"},
	{"innodb_open_files", "ba"},
	{"open_files_limit", "bb"},
	{"table_cache", "bc"},
	{"Aborted_clients", "bd"},
	{"Aborted_connects", "be"},
	{"Max_used_connections", "bf"},
	{"Slow_launch_threads", "bg"},
	{"Threads_cached", "bh"},
	{"Threads_connected", "bi"},
	{"Threads_created", "bj"},
	{"Threads_running", "bk"},
	{"max_connections", "bl"},
	{"thread_cache_size", "bm"},
	{"Connections", "bn"},
	{"slave_running", "bo"},
	{"slave_stopped", "bp"},
	{"Slave_retried_transactions", "bq"},
	{"slave_lag", "br"},
	{"Slave_open_temp_tables", "bs"},
	{"Qcache_free_blocks", "bt"},
	{"Qcache_free_memory", "bu"},
	{"Qcache_hits", "bv"},
	{"Qcache_inserts", "bw"},
	{"Qcache_lowmem_prunes", "bx"},
	{"Qcache_not_cached", "by"},
	{"Qcache_queries_in_cache", "bz"},
	{"Qcache_total_blocks", "c0"},
	{"query_cache_size", "c1"},
	{"Questions", "c2"},
	{"Com_update", "c3"},
	{"Com_insert", "c4"},
	{"Com_select", "c5"},
	{"Com_delete", "c6"},
	{"Com_replace", "c7"},
	{"Com_load", "c8"},
	{"Com_update_multi", "c9"},
	{"Com_insert_select", "ca"},
	{"Com_delete_multi", "cb"},
	{"Com_replace_select", "cc"},
	{"Select_full_join", "cd"},
	{"Select_full_range_join", "ce"},
	{"Select_range", "cf"},
	{"Select_range_check", "cg"},
	{"Select_scan", "ch"},
	{"Sort_merge_passes", "ci"},
	{"Sort_range", "cj"},
	{"Sort_rows", "ck"},
	{"Sort_scan", "cl"},
	{"Created_tmp_tables", "cm"},
	{"Created_tmp_disk_tables", "cn"},
	{"Created_tmp_files", "co"},
	{"Bytes_sent", "cp"},
	{"Bytes_received", "cq"},
	{"innodb_log_buffer_size", "cr"},
	{"unflushed_log", "cs"},
	{"log_bytes_flushed", "ct"},
	{"log_bytes_written", "cu"},
	{"relay_log_space", "cv"},
	{"binlog_cache_size", "cw"},
	{"Binlog_cache_disk_use", "cx"},
	{"Binlog_cache_use", "cy"},
	{"binary_log_space", "cz"},
	{"innodb_locked_tables", "d0"},
	{"innodb_lock_structs", "d1"},
	{"State_closing_tables", "d2"},
	{"State_copying_to_tmp_table", "d3"},
	{"State_end", "d4"},
	{"State_freeing_items", "d5"},
	{"State_init", "d6"},
	{"State_locked", "d7"},
	{"State_login", "d8"},
	{"State_preparing", "d9"},
	{"State_reading_from_net", "da"},
	{"State_sending_data", "db"},
	{"State_sorting_result", "dc"},
	{"State_statistics", "dd"},
	{"State_updating", "de"},
	{"State_writing_to_net", "df"},
	{"State_none", "dg"},
	{"State_other", "dh"},
	{"Handler_commit", "di"},
	{"Handler_delete", "dj"},
	{"Handler_discover", "dk"},
	{"Handler_prepare", "dl"},
	{"Handler_read_first", "dm"},
	{"Handler_read_key", "dn"},
	{"Handler_read_next", "do"},
	{"Handler_read_prev", "dp"},
	{"Handler_read_rnd", "dq"},
	{"Handler_read_rnd_next", "dr"},
	{"Handler_rollback", "ds"},
	{"Handler_savepoint", "dt"},
	{"Handler_savepoint_rollback", "du"},
	{"Handler_update", "dv"},
	{"Handler_write", "dw"},
}

// Counters computed while parsing the InnoDB report that are not printed
// themselves but feed other counters.
var internalMetrics = []string{
	"unpurged_txns",
	"innodb_lsn",
	"flushed_to",
	"queries_inside",
	"queries_queued",
}

var (
	catalog      = makeCatalog()
	stateBuckets = makeStateBuckets()
)

func makeCatalog() map[string]bool {
	m := make(map[string]bool, len(schema)+len(internalMetrics))
	for _, v := range schema {
		m[v.name] = true
	}
	for _, name := range internalMetrics {
		m[name] = true
	}
	return m
}

func makeStateBuckets() map[string]bool {
	m := make(map[string]bool)
	for _, v := range schema {
		if strings.HasPrefix(v.name, statePrefix) {
			m[v.name] = true
		}
	}
	return m
}

