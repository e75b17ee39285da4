// SPDX-License-Identifier: GPL-3.0-or-later

// Package bigcount implements non-negative counter arithmetic over decimal strings.
//
// Some server counters (transaction ids, log sequence numbers, summed spin rounds)
// legitimately exceed the 64-bit range, so values are carried as decimal strings and
// combined by one of several backends. The backend ("tier") is chosen once when the
// Counter is created:
//
//   - TierArbitrary uses math/big and is exact for any magnitude.
//   - TierDecimal uses a fixed-precision apd context; exact up to its precision.
//   - TierNative uses float64 arithmetic and re-extracts the digits of the result.
//     It silently loses precision past 2^53 and drops the sign of negative results.
//
// Callers that care about precision check Counter.Tier.
package bigcount

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is a decimal integer string. The zero value is null (not observed).
type Value string

// Null marks a counter that was not observed.
const Null Value = ""

// IsNull reports whether v was not observed.
func (v Value) IsNull() bool { return v == Null }

func (v Value) String() string { return string(v) }

// operand returns the value used in arithmetic, null counts as zero.
func (v Value) operand() string {
	if v.IsNull() {
		return "0"
	}
	return string(v)
}

// Tier selects the arithmetic backend of a Counter.
type Tier int

const (
	TierNative Tier = iota
	TierDecimal
	TierArbitrary
)

func (t Tier) String() string {
	switch t {
	case TierArbitrary:
		return "big"
	case TierDecimal:
		return "decimal"
	case TierNative:
		return "native"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Lossy reports whether the tier may drop least-significant digits.
func (t Tier) Lossy() bool {
	return t == TierNative
}

// ParseTier parses a tier name as used in configuration. An empty name selects TierArbitrary.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "big", "arbitrary":
		return TierArbitrary, nil
	case "decimal":
		return TierDecimal, nil
	case "native":
		return TierNative, nil
	default:
		return 0, fmt.Errorf("unknown arithmetic tier '%s' (expected big, decimal or native)", s)
	}
}

type backend interface {
	add(a, b string) string
	sub(a, b string) string
	mul(a, b string) string
	fromHex(h string) string
}

// Counter combines Values on one tier.
type Counter struct {
	tier Tier
	be   backend
}

// New returns a Counter on tier. Unknown tiers fall back to TierNative.
func New(tier Tier) *Counter {
	switch tier {
	case TierArbitrary:
		return &Counter{tier: tier, be: bigBackend{}}
	case TierDecimal:
		return &Counter{tier: tier, be: decimalBackend{}}
	default:
		return &Counter{tier: TierNative, be: nativeBackend{}}
	}
}

// Best returns a Counter on the most precise tier available.
func Best() *Counter {
	return New(TierArbitrary)
}

// Tier returns the tier the Counter was created on.
func (c *Counter) Tier() Tier { return c.tier }

// Add returns a+b. Null operands count as zero.
func (c *Counter) Add(a, b Value) Value {
	return Value(c.be.add(a.operand(), b.operand()))
}

// Sub returns a-b. Null operands count as zero.
func (c *Counter) Sub(a, b Value) Value {
	return Value(c.be.sub(a.operand(), b.operand()))
}

// Mul returns a*b. Null operands count as zero.
func (c *Counter) Mul(a, b Value) Value {
	return Value(c.be.mul(a.operand(), b.operand()))
}

func (c *Counter) Sum(vs ...Value) Value {
	sum := Value("0")
	for _, v := range vs {
		sum = c.Add(sum, v)
	}
	return sum
}

// Compare compares two values numerically, null counts as zero.
func Compare(a, b Value) int {
	return parseBig(a.operand()).Cmp(parseBig(b.operand()))
}

// Max returns the numerically larger value, a on ties.
func Max(a, b Value) Value {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}

func parseBig(s string) *big.Int {
	if v, ok := new(big.Int).SetString(s, 10); ok {
		return v
	}
	v, _ := new(big.Int).SetString(string(ToInt(s)), 10)
	return v
}
