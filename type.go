package fattybrewing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is an amount in a weight or volume unit.
type Quantity struct {
	Amount decimal.Decimal
	Unit   Unit
}

func Qty(amount float64, unit Unit) Quantity {
	return Quantity{Amount: decimal.NewFromFloat(amount), Unit: unit}
}

func (q Quantity) String() string {
	return q.Amount.String() + " " + q.Unit.Symbol
}

func (q Quantity) IsZero() bool { return q.Amount.IsZero() }

type Temperature struct {
	Degrees decimal.Decimal
	Unit    Unit
}

func Temp(degrees float64, unit Unit) Temperature {
	return Temperature{Degrees: decimal.NewFromFloat(degrees), Unit: unit}
}

// RoomTemperature is assumed for contents added without a temperature.
func RoomTemperature() Temperature { return Temp(23, Celsius) }

func (t Temperature) String() string {
	return t.Degrees.String() + " " + t.Unit.Symbol
}

func (t Temperature) IsZero() bool { return t.Unit.IsZero() }

// Equal compares two temperatures after converting into t's unit.
func (t Temperature) Equal(other Temperature) bool {
	d, err := ConvertTemperature(other.Degrees, other.Unit, t.Unit)
	if err != nil {
		return false
	}
	return d.Equal(t.Degrees)
}

var amountPattern = regexp.MustCompile(`^\s*(-?[\d.]+)\s*([A-Za-z]+)\s*$`)

func splitAmount(s string) (decimal.Decimal, string, error) {
	match := amountPattern.FindStringSubmatch(s)
	if match == nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q must be of the form NUMBER+UNIT (e.g. 25l, 10gal, 20kg)", ErrInvalid, s)
	}
	amount, err := decimal.NewFromString(match[1])
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}
	return amount, match[2], nil
}

// ParseQuantity parses "10l", "2.5 kg" and the like. hint resolves "oz".
func ParseQuantity(s string, hint Category) (Quantity, error) {
	amount, symbol, err := splitAmount(s)
	if err != nil {
		return Quantity{}, err
	}
	u, err := ParseUnit(symbol, hint)
	if err != nil {
		return Quantity{}, err
	}
	if u.IsTemperature() {
		return Quantity{}, &UnitError{Unit: symbol, Reason: "a temperature is not an amount"}
	}
	return Quantity{Amount: amount, Unit: u}, nil
}

// ParseTemperature parses "70C", "158 f" and the like.
func ParseTemperature(s string) (Temperature, error) {
	degrees, symbol, err := splitAmount(s)
	if err != nil {
		return Temperature{}, err
	}
	u, err := temperatureUnit(symbol)
	if err != nil {
		return Temperature{}, err
	}
	return Temperature{Degrees: degrees, Unit: u}, nil
}

func temperatureUnit(symbol string) (Unit, error) {
	for _, u := range TemperatureUnits {
		if strings.EqualFold(u.Symbol, strings.TrimSpace(symbol)) {
			return u, nil
		}
	}
	return Unit{}, &UnitError{Unit: symbol, Reason: "unable to use the specified temperature unit"}
}

// ParseSize parses a container size such as "35L" or "20kg". Only units a
// container can be measured in are accepted; "oz" means fluid ounces.
func ParseSize(s string) (Quantity, error) {
	q, err := ParseQuantity(s, CategoryVolume)
	if err != nil {
		return Quantity{}, err
	}
	if err := validateSize(q); err != nil {
		return Quantity{}, err
	}
	return q, nil
}

func validateSize(q Quantity) error {
	if !q.Unit.IsVolume() && !q.Unit.IsWeight() {
		return &UnitError{Unit: q.Unit.Symbol, Reason: "container size must be a weight or volume"}
	}
	if !q.Amount.IsPositive() {
		return fmt.Errorf("%w: container size must be positive, got %s", ErrInvalid, q)
	}
	return nil
}
