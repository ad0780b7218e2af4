package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Formatter renders one cell value.
type Formatter func(v any) string

// Currency describes how money is written.
type Currency struct {
	Symbol    string `yaml:"symbol"`
	Code      string `yaml:"code"`
	Thousands string `yaml:"thousands"`
	Decimal   string `yaml:"decimal"`
	Decimals  int32  `yaml:"decimals"`
}

// COP is Colombian pesos: "$ 22.000.000".
func COP() Currency {
	return Currency{Symbol: "$", Code: "COP", Thousands: ".", Decimal: ",", Decimals: 0}
}

// NewCurrencyFormatter returns a pure Formatter: numbers are rounded and
// grouped per c, everything else passes through unchanged.
func NewCurrencyFormatter(c Currency) Formatter {
	return func(v any) string {
		d, ok := toDecimal(v)
		if !ok {
			return passThrough(v)
		}
		return formatDecimal(c, d)
	}
}

var defaultFormatter = NewCurrencyFormatter(COP())

// FormatCurrency formats v as COP.
func FormatCurrency(v any) string { return defaultFormatter(v) }

func formatDecimal(c Currency, d decimal.Decimal) string {
	d = d.Round(c.Decimals)
	neg := d.IsNegative()
	digits := d.Abs().StringFixed(c.Decimals)

	intPart, frac, _ := strings.Cut(digits, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if c.Symbol != "" {
		b.WriteString(c.Symbol)
		b.WriteByte(' ')
	}
	b.WriteString(group(intPart, c.Thousands))
	if frac != "" {
		b.WriteString(c.Decimal)
		b.WriteString(frac)
	}
	return b.String()
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int8:
		return decimal.NewFromInt(int64(x)), true
	case int16:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromInt(int64(x)), true
	case uint8:
		return decimal.NewFromInt(int64(x)), true
	case uint16:
		return decimal.NewFromInt(int64(x)), true
	case uint32:
		return decimal.NewFromInt(int64(x)), true
	case uint64:
		d, err := decimal.NewFromString(fmt.Sprint(x))
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case decimal.Decimal:
		return x, true
	}
	return decimal.Decimal{}, false
}

func passThrough(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
