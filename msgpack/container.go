package brewmsgpack

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"fattybrewing"
)

// Decimals travel as strings so no precision is lost on the wire.

type Unit struct {
	Symbol   string `msgpack:"symbol,omitempty"`
	Category string `msgpack:"category,omitempty"`
}

type Quantity struct {
	Amount string `msgpack:"amount,omitempty"`
	Unit   Unit   `msgpack:"unit"`
}

type Entry struct {
	Substance   string   `msgpack:"substance,omitempty"`
	Quantity    Quantity `msgpack:"quantity"`
	Type        string   `msgpack:"type,omitempty"`
	TempDegrees string   `msgpack:"temp,omitempty"`
	TempUnit    string   `msgpack:"temp_unit,omitempty"`
	DatetimeNs  int64    `msgpack:"date_ns,omitempty"`
}

type Container struct {
	ID       string   `msgpack:"id,omitempty"`
	Name     string   `msgpack:"name,omitempty"`
	Type     string   `msgpack:"type,omitempty"`
	Size     Quantity `msgpack:"size"`
	Full     bool     `msgpack:"full,omitempty"`
	Contents []Entry  `msgpack:"contents,omitempty"`
}

func NewUnit(u fattybrewing.Unit) Unit {
	return Unit{Symbol: u.Symbol, Category: u.Category.String()}
}

func NewQuantity(q fattybrewing.Quantity) Quantity {
	return Quantity{Amount: q.Amount.String(), Unit: NewUnit(q.Unit)}
}

func NewEntry(e fattybrewing.Entry) Entry {
	out := Entry{
		Substance:   e.Substance,
		Quantity:    NewQuantity(e.Quantity),
		Type:        string(e.Type),
		TempDegrees: e.Temperature.Degrees.String(),
		TempUnit:    e.Temperature.Unit.Symbol,
	}
	if !e.UpdatedAt.IsZero() {
		out.DatetimeNs = e.UpdatedAt.UnixNano()
	}
	return out
}

func NewContainer(s fattybrewing.State) Container {
	c := Container{
		ID:   s.ID,
		Name: s.Name,
		Type: string(s.Kind),
		Size: NewQuantity(s.Size),
		Full: s.Full,
	}
	for _, e := range s.Contents {
		c.Contents = append(c.Contents, NewEntry(e))
	}
	return c
}

func ToQuantity(q Quantity) (fattybrewing.Quantity, error) {
	u, err := fattybrewing.LookupUnit(q.Unit.Symbol, q.Unit.Category)
	if err != nil {
		return fattybrewing.Quantity{}, err
	}
	amount, err := decimal.NewFromString(q.Amount)
	if err != nil {
		return fattybrewing.Quantity{}, fmt.Errorf("amount %q: %w", q.Amount, err)
	}
	return fattybrewing.Quantity{Amount: amount, Unit: u}, nil
}

func ToEntry(e Entry) (fattybrewing.Entry, error) {
	q, err := ToQuantity(e.Quantity)
	if err != nil {
		return fattybrewing.Entry{}, fmt.Errorf("entry %q: %w", e.Substance, err)
	}
	out := fattybrewing.Entry{
		Substance: e.Substance,
		Quantity:  q,
		Type:      fattybrewing.ParseContentType(e.Type),
	}
	if e.DatetimeNs != 0 {
		out.UpdatedAt = time.Unix(0, e.DatetimeNs).UTC()
	}
	if e.TempUnit != "" {
		u, err := fattybrewing.LookupUnit(e.TempUnit, fattybrewing.CategoryTemperature.String())
		if err != nil {
			return fattybrewing.Entry{}, fmt.Errorf("entry %q: %w", e.Substance, err)
		}
		degrees, err := decimal.NewFromString(e.TempDegrees)
		if err != nil {
			return fattybrewing.Entry{}, fmt.Errorf("entry %q temperature: %w", e.Substance, err)
		}
		out.Temperature = fattybrewing.Temperature{Degrees: degrees, Unit: u}
	}
	return out, nil
}

func ToState(c Container) (fattybrewing.State, error) {
	size, err := ToQuantity(c.Size)
	if err != nil {
		return fattybrewing.State{}, fmt.Errorf("container %s size: %w", c.ID, err)
	}
	s := fattybrewing.State{
		ID:   c.ID,
		Name: c.Name,
		Kind: fattybrewing.Kind(c.Type),
		Size: size,
		Full: c.Full,
	}
	for _, e := range c.Contents {
		entry, err := ToEntry(e)
		if err != nil {
			return fattybrewing.State{}, fmt.Errorf("container %s: %w", c.ID, err)
		}
		s.Contents = append(s.Contents, entry)
	}
	return s, nil
}

func Marshal(s fattybrewing.State) ([]byte, error) {
	return msgpack.Marshal(NewContainer(s))
}

func Unmarshal(data []byte) (fattybrewing.State, error) {
	var c Container
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return fattybrewing.State{}, err
	}
	return ToState(c)
}

// MarshalEntries encodes just a ledger, as the postgres store keeps it.
func MarshalEntries(entries []fattybrewing.Entry) ([]byte, error) {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntry(e))
	}
	return msgpack.Marshal(out)
}

func UnmarshalEntries(data []byte) ([]fattybrewing.Entry, error) {
	var in []Entry
	if err := msgpack.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]fattybrewing.Entry, 0, len(in))
	for _, e := range in {
		entry, err := ToEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
