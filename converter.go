package fattybrewing

import (
	"github.com/shopspring/decimal"
)

type UnitConversionRule struct {
	Unit   Unit
	Factor decimal.Decimal // Unit * Factor = base unit of the category
}

// Base units: litre for volume, gram for weight.
var unitConversionRules = []UnitConversionRule{
	{Unit: Liter, Factor: decimal.NewFromInt(1)},
	{Unit: Milliliter, Factor: decimal.RequireFromString("0.001")},
	{Unit: Gallon, Factor: decimal.RequireFromString("3.78541")},
	{Unit: FluidOunce, Factor: decimal.RequireFromString("0.0295735")},
	{Unit: Gram, Factor: decimal.NewFromInt(1)},
	{Unit: Kilogram, Factor: decimal.NewFromInt(1000)},
	{Unit: Pound, Factor: decimal.RequireFromString("453.59237")},
	{Unit: Ounce, Factor: decimal.RequireFromString("28.349523125")},
}

// Weight below this many grams is too little to take up any volume.
var negligibleWeight = decimal.NewFromInt(500)

type densityRule struct {
	from, to Unit
	convert  func(decimal.Decimal) decimal.Decimal
}

// The only weight-to-volume approximations the brewery needs.
var densityRules = []densityRule{
	{from: Kilogram, to: Liter, convert: func(a decimal.Decimal) decimal.Decimal { return a }},
	{from: Gram, to: Liter, convert: func(a decimal.Decimal) decimal.Decimal {
		if a.LessThan(negligibleWeight) {
			return decimal.Zero
		}
		return a.Div(decimal.NewFromInt(1000))
	}},
}

func factorFor(u Unit) (decimal.Decimal, bool) {
	for _, rule := range unitConversionRules {
		if rule.Unit == u {
			return rule.Factor, true
		}
	}
	return decimal.Decimal{}, false
}

// ConvertAmount converts amount from one weight or volume unit into another.
func ConvertAmount(amount decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	if from.Category == to.Category && from.Category != CategoryTemperature {
		ff, okFrom := factorFor(from)
		ft, okTo := factorFor(to)
		if okFrom && okTo {
			return amount.Mul(ff).Div(ft), nil
		}
	}
	for _, rule := range densityRules {
		if rule.from == from && rule.to == to {
			return rule.convert(amount), nil
		}
	}
	return decimal.Decimal{}, &ConversionError{From: from, To: to}
}

// ConvertQuantity is ConvertAmount for a Quantity.
func ConvertQuantity(q Quantity, to Unit) (Quantity, error) {
	a, err := ConvertAmount(q.Amount, q.Unit, to)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Amount: a, Unit: to}, nil
}

var (
	kelvinOffset = decimal.RequireFromString("273.15")
	fahrenheitK  = decimal.NewFromInt(9).Div(decimal.NewFromInt(5))
	fahrenheit0  = decimal.NewFromInt(32)
)

// ConvertTemperature converts between Celsius, Kelvin and Fahrenheit.
func ConvertTemperature(degrees decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if !from.IsTemperature() || !to.IsTemperature() {
		return decimal.Decimal{}, &ConversionError{From: from, To: to}
	}
	if from == to {
		return degrees, nil
	}
	var c decimal.Decimal
	switch from {
	case Celsius:
		c = degrees
	case Kelvin:
		c = degrees.Sub(kelvinOffset)
	case Fahrenheit:
		c = degrees.Sub(fahrenheit0).Div(fahrenheitK)
	}
	switch to {
	case Kelvin:
		return c.Add(kelvinOffset), nil
	case Fahrenheit:
		return c.Mul(fahrenheitK).Add(fahrenheit0), nil
	}
	return c, nil
}
