package fattybrewing

import (
	"errors"
	"testing"
)

func TestParseUnit(t *testing.T) {
	cases := []struct {
		symbol string
		hint   Category
		want   Unit
	}{
		{"L", CategoryVolume, Liter},
		{"ml", CategoryUnknown, Milliliter},
		{"GAL", CategoryWeight, Gallon},
		{"oz", CategoryWeight, Ounce},
		{"oz", CategoryVolume, FluidOunce},
		{"OZ", CategoryUnknown, FluidOunce},
		{"kg", CategoryUnknown, Kilogram},
		{"c", CategoryUnknown, Celsius},
		{"f", CategoryUnknown, Fahrenheit},
	}
	for _, c := range cases {
		got, err := ParseUnit(c.symbol, c.hint)
		if err != nil {
			t.Fatalf("ParseUnit(%q): %v", c.symbol, err)
		}
		if got != c.want {
			t.Errorf("ParseUnit(%q, %s) = %+v, want %+v", c.symbol, c.hint, got, c.want)
		}
	}
	if _, err := ParseUnit("barrel", CategoryVolume); !errors.Is(err, ErrUnit) {
		t.Fatalf("barrel: %v", err)
	}
}

func TestLookupUnit(t *testing.T) {
	u, err := LookupUnit("oz", "weight")
	if err != nil || u != Ounce {
		t.Fatalf("LookupUnit(oz, weight) = %+v, %v", u, err)
	}
	if _, err := LookupUnit("kg", "volume"); !errors.Is(err, ErrUnit) {
		t.Fatalf("kg as volume: %v", err)
	}
	if _, err := LookupUnit("l", "colour"); !errors.Is(err, ErrUnit) {
		t.Fatalf("unknown category: %v", err)
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{"35L", Qty(35, Liter)},
		{"20kg", Qty(20, Kilogram)},
		{" 5.5 gal ", Qty(5.5, Gallon)},
		{"64oz", Qty(64, FluidOunce)},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if err != nil {
			t.Fatalf("ParseSize(%q): %v", c.in, err)
		}
		if got.Unit != c.want.Unit || !got.Amount.Equal(c.want.Amount) {
			t.Errorf("ParseSize(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"35", "L35", "20C", "0l", "-3l", "35 barrels", ""} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) succeeded", bad)
		}
	}
	if _, err := ParseSize("20C"); !errors.Is(err, ErrUnit) {
		t.Errorf("ParseSize(20C) = %v, want ErrUnit", err)
	}
}

func TestParseTemperature(t *testing.T) {
	got, err := ParseTemperature("158 f")
	if err != nil {
		t.Fatalf("ParseTemperature: %v", err)
	}
	if !got.Equal(Temp(70, Celsius)) {
		t.Fatalf("158 F = %s, want 70 C", got)
	}
	if _, err := ParseTemperature("70l"); !errors.Is(err, ErrUnit) {
		t.Fatalf("70l: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(" " + string(k) + " ")
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("barrel"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("ParseKind(barrel): %v", err)
	}
}
