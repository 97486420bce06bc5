package fattybrewing

import (
	"errors"
	"slices"
	"strings"

	"fattybrewing/internal/logger"
)

var (
	LiquidWortIngredients = []string{"water", "malt extract"}
	SolidWortIngredients  = []string{"malt", "hops"}
)

const usedPrefix = "used "

func isIngredient(list []string, substance string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return sameSubstance(s, substance) })
}

// ConvertToWort merges the liquid ingredients into a single wort entry and
// marks the solid ones as used. The wort takes the unit of the first liquid
// and an amount-weighted temperature. It returns the entries as they were
// before the conversion.
func (m *MashTun) ConvertToWort() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		replaced []Entry
		solids   []Entry
		wort     Entry
		haveWort bool
	)
	for _, e := range m.contents {
		switch {
		case isIngredient(LiquidWortIngredients, e.Substance):
			if !haveWort {
				wort = Entry{Substance: "wort", Type: ContentWort, Quantity: e.Quantity, Temperature: e.Temperature}
				haveWort = true
				replaced = append(replaced, e)
				continue
			}
			amount, err := ConvertAmount(e.Quantity.Amount, e.Quantity.Unit, wort.Quantity.Unit)
			if err != nil {
				return nil, err
			}
			degrees, err := ConvertTemperature(e.Temperature.Degrees, e.Temperature.Unit, wort.Temperature.Unit)
			if err != nil {
				return nil, err
			}
			wort.Quantity.Amount = wort.Quantity.Amount.Add(amount)
			if !degrees.Equal(wort.Temperature.Degrees) && wort.Quantity.Amount.IsPositive() {
				ratio := amount.Div(wort.Quantity.Amount)
				wort.Temperature.Degrees = wort.Temperature.Degrees.Add(ratio.Mul(degrees.Sub(wort.Temperature.Degrees)))
			}
			replaced = append(replaced, e)
		case isIngredient(SolidWortIngredients, e.Substance):
			used := e
			used.Substance = usedPrefix + strings.TrimSpace(e.Substance)
			used.UpdatedAt = m.now()
			solids = append(solids, used)
			replaced = append(replaced, e)
		}
	}
	if len(replaced) == 0 {
		return nil, nil
	}

	for _, e := range replaced {
		if _, err := m.remove(e.Substance, e.Quantity); err != nil {
			return nil, err
		}
	}

	var errs []error
	if haveWort {
		wort.UpdatedAt = m.now()
		errs = append(errs, m.add(wort))
	}
	for _, e := range solids {
		errs = append(errs, m.add(e))
	}
	logger.L().Info("mash_tun.converted_to_wort", "container", m.label(), "wort", wort.Quantity.String(), "temperature", wort.Temperature.String(), "replaced", len(replaced))
	m.emit(EventWortConverted, wort.Substance, wort.Quantity)
	return replaced, errors.Join(errs...)
}
