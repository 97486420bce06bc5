package fattybrewing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fattybrewing/internal/logger"
)

// FermentWort replaces the single wort entry with beer, timestamped d after
// the wort. The fermenter is left untouched unless exactly one wort, in the
// fermenter's unit for a volume fermenter, is found.
func (f *Fermenter) FermentWort(d time.Duration) ([]Removed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.indexesOf(ContentWort)
	if len(idx) != 1 {
		return nil, &FermentationError{Container: f.label(), Worts: len(idx)}
	}
	if err := f.checkVolumeUnit(f.contents[idx[0]].Quantity.Unit); err != nil {
		return nil, err
	}
	wort := f.takeAt(idx[0])
	beer := Entry{
		Substance:   "beer",
		Quantity:    wort.Quantity,
		Type:        ContentBeer,
		Temperature: wort.Temperature,
		UpdatedAt:   wort.UpdatedAt.Add(d),
	}
	if err := f.add(beer); err != nil {
		return []Removed{wort}, err
	}
	logger.L().Info("fermenter.fermented", "container", f.label(), "beer", beer.Quantity.String(), "ready_at", beer.UpdatedAt)
	f.emit(EventFermented, beer.Substance, beer.Quantity)
	return []Removed{wort}, nil
}

// IntoKegs fills the kegs in order with the fermenter's beer, each up to its
// free capacity. Beer already moved stays in its keg when the kegs run out
// before the beer does.
func (f *Fermenter) IntoKegs(kegs ...*Keg) error {
	all := []*Container{f.Container}
	for _, k := range kegs {
		all = append(all, k.Container)
	}
	unlock := lockAll(all...)
	defer unlock()

	idx := f.indexesOf(ContentBeer)
	if len(idx) != 1 {
		return &PackagingError{Container: f.label(), Beers: len(idx)}
	}
	beer := f.contents[idx[0]]
	log := logger.L().With("container", f.label())

	remaining := beer.Quantity.Amount
	for _, keg := range kegs {
		if !remaining.IsPositive() {
			log.Info("fermenter.kegging_done")
			break
		}
		move, err := fitting(keg.free(), f.size.Unit)
		if err != nil {
			return &PackagingError{Container: f.label(), Beers: 1, Err: err}
		}
		if !move.IsPositive() {
			continue
		}
		removed, err := f.remove(beer.Substance, Quantity{Amount: move, Unit: f.size.Unit})
		if err != nil {
			return &PackagingError{Container: f.label(), Beers: 1, Err: err}
		}
		for _, r := range removed {
			e := r.Entry()
			e.Type = ContentBeer
			e.Quantity = keg.inUnit(r.Quantity)
			if err := keg.add(e); err != nil {
				var over *CapacityExceededError
				if !errors.As(err, &over) {
					f.putBack(r)
					return &PackagingError{Container: f.label(), Beers: 1, Err: err}
				}
				back, cerr := ConvertAmount(over.Remainder.Amount, over.Remainder.Unit, r.Quantity.Unit)
				if cerr != nil {
					return &PackagingError{Container: f.label(), Beers: 1, Err: errors.Join(err, cerr)}
				}
				rest := r
				rest.Quantity.Amount = back
				f.putBack(rest)
				r.Quantity.Amount = r.Quantity.Amount.Sub(back)
			}
			log.Info("fermenter.kegged", "keg", keg.label(), "amount", r.Quantity.String())
			f.emit(EventKegged, r.Substance, r.Quantity)
		}
		remaining = f.amountOf(ContentBeer, beer.Quantity.Unit)
	}

	if remaining.IsPositive() {
		left := Quantity{Amount: remaining, Unit: beer.Quantity.Unit}
		log.Error("fermenter.insufficient_kegs", "unpackaged", left.String())
		return &PackagingError{Container: f.label(), Beers: 1, Unpackaged: left}
	}
	return nil
}

// fitting converts room into unit, rounding down until the result converted
// back is no more than room.
func fitting(room Quantity, unit Unit) (decimal.Decimal, error) {
	move, err := ConvertAmount(room.Amount, room.Unit, unit)
	if err != nil {
		return decimal.Zero, err
	}
	step := decimal.New(1, min(move.Exponent(), -int32(decimal.DivisionPrecision)))
	for move.IsPositive() {
		back, err := ConvertAmount(move, unit, room.Unit)
		if err != nil {
			return decimal.Zero, err
		}
		if back.LessThanOrEqual(room.Amount) {
			break
		}
		move = move.Sub(step)
	}
	return move, nil
}

// putBack returns r to the entry it came from, or appends it if that entry
// was used up.
func (c *Container) putBack(r Removed) {
	if !r.Quantity.Amount.IsPositive() {
		return
	}
	for i := range c.contents {
		e := &c.contents[i]
		if e.Type == r.Type && e.Quantity.Unit == r.Quantity.Unit && sameSubstance(e.Substance, r.Substance) {
			e.Quantity.Amount = e.Quantity.Amount.Add(r.Quantity.Amount)
			c.refreshFull()
			return
		}
	}
	c.contents = append(c.contents, r.Entry())
	c.refreshFull()
}

func (c *Container) indexesOf(t ContentType) []int {
	var idx []int
	for i, e := range c.contents {
		if e.Type == t {
			idx = append(idx, i)
		}
	}
	return idx
}

// amountOf sums entries of type t that can be expressed in unit.
func (c *Container) amountOf(t ContentType, unit Unit) decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.contents {
		if e.Type != t || e.Quantity.Unit.Category != unit.Category {
			continue
		}
		if a, err := ConvertAmount(e.Quantity.Amount, e.Quantity.Unit, unit); err == nil {
			total = total.Add(a)
		}
	}
	return total
}
