package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact PHP amount held as integer centavos. Arithmetic on
// Money never loses precision; fractional-centavo inputs are rejected
// at the boundary rather than rounded.
type Money struct {
	centavos int64
}

func MoneyFromCentavos(centavos int64) Money {
	return Money{centavos: centavos}
}

// ParseMoney parses a decimal string like "5000.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts a decimal amount to Money. Amounts with
// sub-centavo precision fail with ErrSubCentavoAmount.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	centavos := d.Mul(decimal.NewFromInt(100))
	if !centavos.IsInteger() {
		return Money{}, ErrSubCentavoAmount
	}
	return Money{centavos: centavos.IntPart()}, nil
}

func (m Money) Centavos() int64 {
	return m.centavos
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.centavos, -2)
}

func (m Money) Add(other Money) Money {
	return Money{centavos: m.centavos + other.centavos}
}

func (m Money) Sub(other Money) Money {
	return Money{centavos: m.centavos - other.centavos}
}

func (m Money) Neg() Money {
	return Money{centavos: -m.centavos}
}

func (m Money) IsZero() bool {
	return m.centavos == 0
}

func (m Money) IsPositive() bool {
	return m.centavos > 0
}

func (m Money) IsNegative() bool {
	return m.centavos < 0
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) int {
	switch {
	case m.centavos < other.centavos:
		return -1
	case m.centavos > other.centavos:
		return 1
	}
	return 0
}

// Percent computes pct% of the amount, rounded half-up to the centavo.
func (m Money) Percent(pct float64) Money {
	result := m.Decimal().
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	return Money{centavos: result.Mul(decimal.NewFromInt(100)).IntPart()}
}

// String renders the amount with two decimal places, e.g. "5000.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
