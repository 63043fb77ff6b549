package dataset

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in whole currency units (yen).
//
// The upstream snapshot is CSV-derived, so numeric fields arrive in several
// shapes: plain JSON numbers, quoted numbers, grouped strings ("1,234,567"),
// empty strings, or literal "-" for missing data. Parse failures degrade to
// zero instead of failing the load; the pipeline must render anomalous
// records, not crash on them.
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings, and known missing-value
// markers. Anything unparseable becomes zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*a = parseAmount(num.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = parseAmount(s)
		return nil
	}

	// null, objects, arrays: treat as missing
	*a = 0
	return nil
}

// parseAmount converts a raw field to an Amount, substituting zero for
// malformed input. Grouping commas and surrounding whitespace are stripped
// before parsing; decimal handles exponent and fraction forms exactly.
func parseAmount(raw string) Amount {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || s == "–" || s == "N/A" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return Amount(f)
}

// ParseAmount converts a raw string field to an Amount.
// Malformed input yields zero, never an error.
func ParseAmount(raw string) Amount {
	return parseAmount(raw)
}

// Float64 returns the amount as a plain float64.
func (a Amount) Float64() float64 { return float64(a) }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a == 0 }
