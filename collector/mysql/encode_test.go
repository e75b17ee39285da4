// SPDX-License-Identifier: GPL-3.0-or-later

package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cs := NewCounterSet()
	cs.Set("Key_read_requests", "92380")
	cs.Set("spin_waits", "0")
	cs.Set("Handler_write", "18446744073709551616")
	cs.Set("innodb_lsn", "540805326864")

	line := Encode(cs)
	pairs := strings.Split(line, " ")

	require.Len(t, pairs, len(schema))
	assert.Equal(t, "a0:92380", pairs[0])
	assert.Equal(t, "a1:-1", pairs[1])
	assert.Contains(t, pairs, "ax:0")
	assert.Equal(t, "dw:18446744073709551616", pairs[len(pairs)-1])
	assert.NotContains(t, line, "540805326864")
}

func TestEncode_EmptySet(t *testing.T) {
	for _, pair := range strings.Split(Encode(NewCounterSet()), " ") {
		assert.True(t, strings.HasSuffix(pair, ":-1"), pair)
	}
}

func TestFilterItems(t *testing.T) {
	line := "a0:1 a1:2 a2:-1 bo:0 dw:7"

	tests := map[string]struct {
		items []string
		want  string
	}{
		"subset keeps line order": {items: []string{"dw", "a0", "bo"}, want: "a0:1 bo:0 dw:7"},
		"sentinel kept":           {items: []string{"a2"}, want: "a2:-1"},
		"spaces around items":     {items: []string{" a1", "a0 "}, want: "a0:1 a1:2"},
		"unknown code":            {items: []string{"zz"}, want: ""},
		"no items":                {items: nil, want: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, FilterItems(line, test.items))
		})
	}
}

func Test_schemaCodes(t *testing.T) {
	assert.Equal(t, "a0", schema[0].code)
	assert.Equal(t, "cs", schema[indexOfMetric(t, "unflushed_log")].code)
}

func indexOfMetric(t *testing.T, name string) int {
	for i, m := range schema {
		if m.name == name {
			return i
		}
	}
	t.Fatalf("metric %s not in schema", name)
	return -1
}
