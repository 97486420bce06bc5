package fattybrewing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"fattybrewing/internal/logger"
)

type Kind string

const (
	KindMashTun   Kind = "mash_tun"
	KindFermenter Kind = "fermenter"
	KindStorage   Kind = "storage"
	KindKeg       Kind = "keg"
	KindBottle    Kind = "bottle"
)

var Kinds = []Kind{KindMashTun, KindFermenter, KindStorage, KindKeg, KindBottle}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: container type must be one of %v, got %q", ErrInvalid, Kinds, s)
}

var ErrAboveLevel = errors.New("container already above requested level")

// containerSeq orders locks across containers that have no id yet.
var containerSeq atomic.Uint64

// Container holds an ordered ledger of entries measured against its size.
// The size unit is the canonical unit for every capacity computation.
// All methods are safe for concurrent use; a Container must not be copied.
type Container struct {
	mu       sync.Mutex
	seq      uint64
	id       string
	name     string
	kind     Kind
	size     Quantity
	contents []Entry
	full     bool
	hooks    []HookFunc
	now      func() time.Time
}

// State is a copy of a container's persistent fields.
type State struct {
	ID       string
	Name     string
	Kind     Kind
	Size     Quantity
	Contents []Entry
	Full     bool
}

func New(kind Kind, name string, size Quantity) (*Container, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	return &Container{
		seq:  containerSeq.Add(1),
		name: name,
		kind: kind,
		size: size,
		now:  time.Now,
	}, nil
}

// Restore rebuilds a container from a stored state. The full flag is
// recomputed rather than trusted.
func Restore(s State) (*Container, error) {
	c, err := New(s.Kind, s.Name, s.Size)
	if err != nil {
		return nil, err
	}
	c.id = s.ID
	for _, e := range s.Contents {
		if !e.Quantity.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: restore %s: entry %q has non-positive amount %s", ErrInvalid, s.ID, e.Substance, e.Quantity)
		}
		if err := c.checkVolumeUnit(e.Quantity.Unit); err != nil {
			return nil, fmt.Errorf("restore %s: entry %q: %w", s.ID, e.Substance, err)
		}
		c.contents = append(c.contents, e)
	}
	c.refreshFull()
	return c, nil
}

func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		ID:       c.id,
		Name:     c.name,
		Kind:     c.kind,
		Size:     c.size,
		Contents: append([]Entry(nil), c.contents...),
		Full:     c.full,
	}
}

func (c *Container) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// SetID is used by stores when a new container is first saved.
func (c *Container) SetID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
}

func (c *Container) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *Container) Kind() Kind { return c.kind }

func (c *Container) Size() Quantity { return c.size }

func (c *Container) Full() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full
}

func (c *Container) Contents() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.contents...)
}

// TotalFilled sums, in the container's unit, every entry of the same unit
// category as the size. Weight in a volume container is free, and the
// other way round.
func (c *Container) TotalFilled() Quantity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalFilled()
}

// Free is the capacity left before the container is full.
func (c *Container) Free() Quantity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.free()
}

func (c *Container) AddContent(substance string, amount Quantity) error {
	return c.AddEntry(Entry{Substance: substance, Quantity: amount})
}

// AddEntry appends e to the ledger. A zero temperature means room
// temperature, an empty type is derived from the substance and a zero
// timestamp means now. If e does not fit, the part that fits is appended
// and a *CapacityExceededError carrying the rest is returned.
func (c *Container) AddEntry(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(e)
}

// AddAll adds every item, continuing past failures, and returns them joined.
func (c *Container) AddAll(items []Removed) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addAll(items)
}

// RemoveContent takes amount of substance out of the container, consuming
// matching entries in ledger order. Asking for more than there is removes
// what there is; callers compare the returned amounts with their request.
func (c *Container) RemoveContent(substance string, amount Quantity) ([]Removed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(substance, amount)
}

// RemoveAll drains the container.
func (c *Container) RemoveAll() []Removed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeAll()
}

// HeatContents sets every entry to t. It is an override, not a blend.
func (c *Container) HeatContents(t Temperature) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.Unit.IsTemperature() {
		return &UnitError{Unit: t.Unit.Symbol, Reason: "unable to use the specified temperature unit"}
	}
	for i := range c.contents {
		c.contents[i].Temperature = t
	}
	logger.L().Info("container.heated", "container", c.label(), "temperature", t.String())
	c.emit(EventHeated, "", Quantity{})
	return nil
}

// FillTo adds substance until the container holds level.
func (c *Container) FillTo(substance string, level Quantity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level.Unit.Category != c.size.Unit.Category {
		return &UnitError{Unit: level.Unit.Symbol, Reason: "fill level must be measured like the container size " + c.size.Unit.Symbol}
	}
	target, err := ConvertAmount(level.Amount, level.Unit, c.size.Unit)
	if err != nil {
		return err
	}
	filled := c.totalFilled()
	need := target.Sub(filled.Amount)
	switch {
	case need.IsNegative():
		return fmt.Errorf("%w: container %s holds %s, requested %s", ErrAboveLevel, c.label(), filled, level)
	case need.IsZero():
		return nil
	}
	return c.add(Entry{Substance: substance, Quantity: Quantity{Amount: need, Unit: c.size.Unit}})
}

func (c *Container) label() string {
	switch {
	case c.id != "":
		return c.id
	case c.name != "":
		return c.name
	}
	return string(c.kind)
}

func (c *Container) totalFilled() Quantity {
	total := decimal.Zero
	for _, e := range c.contents {
		if e.Quantity.Unit.Category != c.size.Unit.Category {
			continue
		}
		a, err := ConvertAmount(e.Quantity.Amount, e.Quantity.Unit, c.size.Unit)
		if err != nil {
			logger.L().Debug("container.total_skipped", "container", c.label(), "substance", e.Substance, "err", err)
			continue
		}
		total = total.Add(a)
	}
	return Quantity{Amount: total, Unit: c.size.Unit}
}

func (c *Container) free() Quantity {
	room := c.size.Amount.Sub(c.totalFilled().Amount)
	if room.IsNegative() {
		room = decimal.Zero
	}
	return Quantity{Amount: room, Unit: c.size.Unit}
}

// capacityOf is how much of the container q would take up.
func (c *Container) capacityOf(q Quantity) decimal.Decimal {
	if q.Unit.Category != c.size.Unit.Category {
		logger.L().Debug("container.capacity_free", "container", c.label(), "unit", q.Unit.Symbol)
		return decimal.Zero
	}
	a, err := ConvertAmount(q.Amount, q.Unit, c.size.Unit)
	if err != nil {
		logger.L().Warn("container.capacity_unconverted", "container", c.label(), "amount", q.String(), "err", err)
		return decimal.Zero
	}
	return a
}

func (c *Container) refreshFull() {
	c.full = c.totalFilled().Amount.GreaterThanOrEqual(c.size.Amount)
}

func (c *Container) add(e Entry) error {
	if strings.TrimSpace(e.Substance) == "" {
		return fmt.Errorf("%w: content must have a substance name", ErrInvalid)
	}
	if e.Quantity.Unit.IsTemperature() || e.Quantity.Unit.IsZero() {
		return &UnitError{Unit: e.Quantity.Unit.Symbol, Reason: "amount must be a weight or volume"}
	}
	if !e.Quantity.Amount.IsPositive() {
		return fmt.Errorf("%w: amount of %s must be positive, got %s", ErrInvalid, e.Substance, e.Quantity)
	}
	if e.Temperature.IsZero() {
		e.Temperature = RoomTemperature()
	} else if !e.Temperature.Unit.IsTemperature() {
		return &UnitError{Unit: e.Temperature.Unit.Symbol, Reason: "unable to use the specified temperature unit"}
	}
	if e.Type == "" {
		e.Type = DetermineContentType(e.Substance)
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = c.now()
	}
	if err := c.checkVolumeUnit(e.Quantity.Unit); err != nil {
		return err
	}

	log := logger.L().With("container", c.label(), "substance", e.Substance)
	consumed := c.capacityOf(e.Quantity)
	filled := c.totalFilled().Amount
	if filled.Add(consumed).GreaterThan(c.size.Amount) {
		room := c.size.Amount.Sub(filled)
		if room.IsNegative() {
			room = decimal.Zero
		}
		accepted := Quantity{Amount: room, Unit: c.size.Unit}
		remainder := Quantity{Amount: consumed.Sub(room), Unit: c.size.Unit}
		if room.IsPositive() {
			clipped := e
			clipped.Quantity = accepted
			c.contents = append(c.contents, clipped)
			c.emit(EventAdded, e.Substance, accepted)
		}
		c.full = true
		log.Warn("container.overflow", "accepted", accepted.String(), "remainder", remainder.String())
		c.emit(EventOverflow, e.Substance, remainder)
		return &CapacityExceededError{
			Container: c.label(),
			Substance: e.Substance,
			Accepted:  accepted,
			Remainder: remainder,
		}
	}

	c.contents = append(c.contents, e)
	c.refreshFull()
	log.Info("container.added", "amount", e.Quantity.String(), "temperature", e.Temperature.String())
	c.emit(EventAdded, e.Substance, e.Quantity)
	return nil
}

// checkVolumeUnit rejects volumes in a volume container that are not
// measured in the container's unit.
func (c *Container) checkVolumeUnit(u Unit) error {
	if c.size.Unit.IsVolume() && u.IsVolume() && u != c.size.Unit {
		return &UnitError{Unit: u.Symbol, Reason: fmt.Sprintf("only able to add volume content measured in %q", c.size.Unit.Symbol)}
	}
	return nil
}

func (c *Container) addAll(items []Removed) error {
	var errs []error
	for _, item := range items {
		e := item.Entry()
		e.UpdatedAt = time.Time{}
		if err := c.add(e); err != nil {
			logger.L().Warn("container.add_failed", "container", c.label(), "substance", item.Substance, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Container) remove(substance string, amount Quantity) ([]Removed, error) {
	if !amount.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount of %s to remove must be positive, got %s", ErrInvalid, substance, amount)
	}
	if !c.holds(substance) {
		return nil, &NotFoundError{Container: c.label(), Substance: substance}
	}

	log := logger.L().With("container", c.label(), "substance", substance)
	remaining := amount.Amount
	var removed []Removed
	for i := range c.contents {
		if !remaining.IsPositive() {
			break
		}
		e := &c.contents[i]
		if !sameSubstance(e.Substance, substance) {
			continue
		}
		if e.Quantity.Unit.Category != amount.Unit.Category {
			log.Debug("container.remove_skipped", "entry_unit", e.Quantity.Unit.Symbol, "request_unit", amount.Unit.Symbol)
			continue
		}
		want, err := ConvertAmount(remaining, amount.Unit, e.Quantity.Unit)
		if err != nil {
			log.Debug("container.remove_skipped", "err", err)
			continue
		}
		take := decimal.Min(e.Quantity.Amount, want)
		if !take.IsPositive() {
			continue
		}
		e.Quantity.Amount = e.Quantity.Amount.Sub(take)
		taken := Quantity{Amount: take, Unit: e.Quantity.Unit}
		removed = append(removed, Removed{
			Substance:   e.Substance,
			Quantity:    taken,
			Temperature: e.Temperature,
			Type:        e.Type,
			UpdatedAt:   e.UpdatedAt,
		})
		if take.Equal(want) {
			remaining = decimal.Zero
			continue
		}
		back, err := ConvertAmount(take, e.Quantity.Unit, amount.Unit)
		if err != nil {
			log.Warn("container.remove_unconverted", "err", err)
			break
		}
		remaining = remaining.Sub(back)
	}

	c.prune()
	c.refreshFull()
	if remaining.IsPositive() {
		log.Info("container.partial_removal", "requested", amount.String(), "missing", Quantity{Amount: remaining, Unit: amount.Unit}.String())
	}
	for _, r := range removed {
		log.Info("container.removed", "amount", r.Quantity.String())
		c.emit(EventRemoved, r.Substance, r.Quantity)
	}
	return removed, nil
}

func (c *Container) removeAll() []Removed {
	removed := make([]Removed, 0, len(c.contents))
	for _, e := range c.contents {
		removed = append(removed, Removed{
			Substance:   e.Substance,
			Quantity:    e.Quantity,
			Temperature: e.Temperature,
			Type:        e.Type,
			UpdatedAt:   e.UpdatedAt,
		})
		c.emit(EventRemoved, e.Substance, e.Quantity)
	}
	c.contents = nil
	c.refreshFull()
	logger.L().Info("container.drained", "container", c.label(), "entries", len(removed))
	return removed
}

func (c *Container) holds(substance string) bool {
	for _, e := range c.contents {
		if sameSubstance(e.Substance, substance) {
			return true
		}
	}
	return false
}

func (c *Container) prune() {
	kept := c.contents[:0]
	for _, e := range c.contents {
		if e.Quantity.Amount.IsPositive() {
			kept = append(kept, e)
		}
	}
	c.contents = kept
}

// lockAll locks the given containers in a fixed global order, skipping
// duplicates, and returns the matching unlock.
func lockAll(cs ...*Container) func() {
	ordered := make([]*Container, 0, len(cs))
	for _, c := range cs {
		if !slices.Contains(ordered, c) {
			ordered = append(ordered, c)
		}
	}
	slices.SortFunc(ordered, func(a, b *Container) int { return cmp.Compare(a.seq, b.seq) })
	for _, c := range ordered {
		c.mu.Lock()
	}
	return func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}
}

// inUnit expresses q in the container's unit when both share a category,
// as add requires for volumes.
func (c *Container) inUnit(q Quantity) Quantity {
	if q.Unit == c.size.Unit || q.Unit.Category != c.size.Unit.Category {
		return q
	}
	converted, err := ConvertQuantity(q, c.size.Unit)
	if err != nil {
		return q
	}
	return converted
}

// takeAt removes the whole entry at index i.
func (c *Container) takeAt(i int) Removed {
	e := c.contents[i]
	c.contents = append(c.contents[:i], c.contents[i+1:]...)
	c.refreshFull()
	c.emit(EventRemoved, e.Substance, e.Quantity)
	return Removed{
		Substance:   e.Substance,
		Quantity:    e.Quantity,
		Temperature: e.Temperature,
		Type:        e.Type,
		UpdatedAt:   e.UpdatedAt,
	}
}
