package fattybrewing

import (
	"strings"
)

type Category int

const (
	CategoryUnknown Category = iota
	CategoryVolume
	CategoryWeight
	CategoryTemperature
)

func (c Category) String() string {
	switch c {
	case CategoryVolume:
		return "volume"
	case CategoryWeight:
		return "weight"
	case CategoryTemperature:
		return "temperature"
	}
	return "unknown"
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "volume":
		return CategoryVolume, nil
	case "weight":
		return CategoryWeight, nil
	case "temperature":
		return CategoryTemperature, nil
	}
	return CategoryUnknown, &UnitError{Unit: s, Reason: "unknown unit category"}
}

// Unit is a unit symbol tagged with its category. The symbol alone is not
// enough: "oz" exists both as a weight and as a volume.
type Unit struct {
	Symbol   string
	Category Category
}

var (
	Liter      = Unit{Symbol: "l", Category: CategoryVolume}
	Milliliter = Unit{Symbol: "ml", Category: CategoryVolume}
	Gallon     = Unit{Symbol: "gal", Category: CategoryVolume}
	FluidOunce = Unit{Symbol: "oz", Category: CategoryVolume}

	Gram     = Unit{Symbol: "g", Category: CategoryWeight}
	Kilogram = Unit{Symbol: "kg", Category: CategoryWeight}
	Pound    = Unit{Symbol: "lb", Category: CategoryWeight}
	Ounce    = Unit{Symbol: "oz", Category: CategoryWeight}

	Celsius    = Unit{Symbol: "C", Category: CategoryTemperature}
	Kelvin     = Unit{Symbol: "K", Category: CategoryTemperature}
	Fahrenheit = Unit{Symbol: "F", Category: CategoryTemperature}
)

var (
	VolumeUnits      = []Unit{Liter, Gallon, FluidOunce, Milliliter}
	WeightUnits      = []Unit{Gram, Kilogram, Pound, Ounce}
	TemperatureUnits = []Unit{Celsius, Kelvin, Fahrenheit}
)

func (u Unit) String() string { return u.Symbol }

func (u Unit) IsZero() bool { return u.Symbol == "" }

func (u Unit) IsVolume() bool { return u.Category == CategoryVolume }

func (u Unit) IsWeight() bool { return u.Category == CategoryWeight }

func (u Unit) IsTemperature() bool { return u.Category == CategoryTemperature }

// ParseUnit resolves a unit symbol. Volume and weight symbols are matched
// lower-case, temperature symbols upper-case; both case-insensitively. The
// hint decides which "oz" is meant; anything but CategoryWeight yields the
// fluid ounce.
func ParseUnit(symbol string, hint Category) (Unit, error) {
	s := strings.TrimSpace(symbol)
	if strings.EqualFold(s, "oz") {
		if hint == CategoryWeight {
			return Ounce, nil
		}
		return FluidOunce, nil
	}
	for _, group := range [][]Unit{VolumeUnits, WeightUnits, TemperatureUnits} {
		for _, u := range group {
			if strings.EqualFold(u.Symbol, s) {
				return u, nil
			}
		}
	}
	return Unit{}, &UnitError{Unit: symbol, Reason: "unsupported unit"}
}

// LookupUnit restores a unit from its persisted symbol and category name.
func LookupUnit(symbol, category string) (Unit, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return Unit{}, err
	}
	u, err := ParseUnit(symbol, cat)
	if err != nil {
		return Unit{}, err
	}
	if u.Category != cat {
		return Unit{}, &UnitError{Unit: symbol, Reason: "unit is not a " + cat.String() + " unit"}
	}
	return u, nil
}
