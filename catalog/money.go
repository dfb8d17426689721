package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Display formatting happens only in String.
type Money int64

// FromFloat converts a decimal amount (as stored by the backend) to cents.
// NaN, Inf and negative inputs become 0.
func FromFloat(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return Money(math.Round(v * 100))
}

// ParseMoney reads a display price such as "$12.34". Every character that is
// not a digit or a dot is dropped first; anything still unparseable is 0.
func ParseMoney(s string) Money {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return FromFloat(v)
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Add returns m+d, floored at zero.
func (m Money) Add(d Money) Money {
	if s := m + d; s > 0 {
		return s
	}
	return 0
}

// Discounted applies a percentage discount, rounding half up to the cent.
func (m Money) Discounted(pct int) Money {
	pct = clampPercent(pct)
	if pct == 0 || m <= 0 {
		return m
	}
	return Money((int64(m)*int64(100-pct) + 50) / 100)
}

func (m Money) String() string {
	neg := ""
	v := int64(m)
	if v < 0 {
		neg, v = "-", -v
	}
	return fmt.Sprintf("%s$%d.%02d", neg, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', 2, 64)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*m = 0
		return nil
	}
	*m = ParseMoney(s)
	return nil
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
