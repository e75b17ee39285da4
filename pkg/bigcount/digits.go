// SPDX-License-Identifier: GPL-3.0-or-later

package bigcount

import (
	"regexp"
	"strings"
)

var (
	reDigits    = regexp.MustCompile(`\d+`)
	reHexDigits = regexp.MustCompile(`[0-9A-Fa-f]+`)
)

// ToInt returns the first run of decimal digits found anywhere in s, or "0".
// Numeric casts are not used because report tokens carry punctuation and units,
// and their values may not fit in an int64.
func ToInt(s string) Value {
	v, _ := Digits(s)
	return v
}

// Digits is ToInt that also reports whether s contained any digit.
func Digits(s string) (Value, bool) {
	m := reDigits.FindString(s)
	if m == "" {
		return "0", false
	}
	return canonical(m), true
}

// FromHex converts the first run of hexadecimal digits in s to decimal.
func (c *Counter) FromHex(s string) Value {
	m := reHexDigits.FindString(s)
	if m == "" {
		return "0"
	}
	return Value(c.be.fromHex(m))
}

// FromPair rebuilds a 64-bit counter printed either as one hex token (lo empty)
// or as two 32-bit decimal words: hi*2^32 + lo.
func (c *Counter) FromPair(hi, lo string) Value {
	if lo == "" {
		return c.FromHex(hi)
	}
	// ToInt maps an empty word to "0".
	return c.Add(c.Mul(ToInt(hi), "4294967296"), ToInt(lo))
}

func canonical(digits string) Value {
	if s := strings.TrimLeft(digits, "0"); s != "" {
		return Value(s)
	}
	return "0"
}
