// SPDX-License-Identifier: GPL-3.0-or-later

package bigcount

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// decimalPrecision is large enough for hi*2^32+lo pairs of two 64-bit words.
const decimalPrecision = 64

var decimalCtx = apd.BaseContext.WithPrecision(decimalPrecision)

type bigBackend struct{}

func (bigBackend) add(a, b string) string {
	return new(big.Int).Add(parseBig(a), parseBig(b)).String()
}

func (bigBackend) sub(a, b string) string {
	return new(big.Int).Sub(parseBig(a), parseBig(b)).String()
}

func (bigBackend) mul(a, b string) string {
	return new(big.Int).Mul(parseBig(a), parseBig(b)).String()
}

func (bigBackend) fromHex(h string) string {
	v, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return "0"
	}
	return v.String()
}

type decimalBackend struct{ bigBackend }

func (decimalBackend) add(a, b string) string {
	var res apd.Decimal
	_, _ = decimalCtx.Add(&res, parseDecimal(a), parseDecimal(b))
	return decimalText(&res)
}

func (decimalBackend) sub(a, b string) string {
	var res apd.Decimal
	_, _ = decimalCtx.Sub(&res, parseDecimal(a), parseDecimal(b))
	return decimalText(&res)
}

func (decimalBackend) mul(a, b string) string {
	var res apd.Decimal
	_, _ = decimalCtx.Mul(&res, parseDecimal(a), parseDecimal(b))
	return decimalText(&res)
}

func parseDecimal(s string) *apd.Decimal {
	if d, _, err := apd.NewFromString(s); err == nil {
		return d
	}
	d, _, _ := apd.NewFromString(string(ToInt(s)))
	return d
}

func decimalText(d *apd.Decimal) string {
	if d.Form != apd.Finite {
		return "0"
	}
	return d.Text('f')
}

// nativeBackend mirrors plain float arithmetic: results past 2^53 are rounded and
// the sign of a negative difference is lost when the digits are re-extracted.
type nativeBackend struct{}

func (nativeBackend) add(a, b string) string {
	return nativeString(parseFloat(a) + parseFloat(b))
}

func (nativeBackend) sub(a, b string) string {
	return nativeString(parseFloat(a) - parseFloat(b))
}

func (nativeBackend) mul(a, b string) string {
	return nativeString(parseFloat(a) * parseFloat(b))
}

func (nativeBackend) fromHex(h string) string {
	v, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return "0"
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return nativeString(f)
}

func parseFloat(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	v, _ := strconv.ParseFloat(string(ToInt(s)), 64)
	return v
}

func nativeString(f float64) string {
	return string(ToInt(strconv.FormatFloat(f, 'f', 0, 64)))
}
