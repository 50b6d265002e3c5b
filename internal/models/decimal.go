package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a float64 that always serializes with a fractional part,
// so 2 is written as 2.0 and 0 as 0.0.
type Decimal float64

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported decimal value: %v", f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}
