package fattybrewing

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestContainer(t *testing.T, kind Kind, size Quantity) *Container {
	t.Helper()
	c, err := New(kind, string(kind), size)
	if err != nil {
		t.Fatalf("New(%s, %s): %v", kind, size, err)
	}
	c.now = func() time.Time { return testNow }
	return c
}

func mustAdd(t *testing.T, c *Container, substance string, q Quantity) {
	t.Helper()
	if err := c.AddContent(substance, q); err != nil {
		t.Fatalf("AddContent(%s, %s): %v", substance, q, err)
	}
}

func checkInvariants(t *testing.T, c *Container) {
	t.Helper()
	total := c.TotalFilled()
	if total.Amount.GreaterThan(c.Size().Amount) {
		t.Fatalf("filled %s exceeds size %s", total, c.Size())
	}
	if want := total.Amount.GreaterThanOrEqual(c.Size().Amount); c.Full() != want {
		t.Fatalf("full = %v with %s of %s", c.Full(), total, c.Size())
	}
	for _, e := range c.Contents() {
		if !e.Quantity.Amount.IsPositive() {
			t.Fatalf("entry %q has amount %s", e.Substance, e.Quantity)
		}
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(KindKeg, "", Qty(10, Celsius)); !errors.Is(err, ErrUnit) {
		t.Fatalf("temperature size: %v", err)
	}
	if _, err := New(KindKeg, "", Qty(0, Liter)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero size: %v", err)
	}
	if _, err := New("barrel", "", Qty(10, Liter)); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestBasicFillAndDrain(t *testing.T) {
	c := newTestContainer(t, KindMashTun, Qty(35, Liter))

	mustAdd(t, c, "water", Qty(10, Liter))
	if got := c.TotalFilled(); !got.Amount.Equal(dec("10")) || got.Unit != Liter {
		t.Fatalf("TotalFilled = %s, want 10 l", got)
	}

	removed, err := c.RemoveContent("water", Qty(3, Liter))
	if err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}
	if len(removed) != 1 || !removed[0].Quantity.Amount.Equal(dec("3")) {
		t.Fatalf("removed = %+v, want 3 l", removed)
	}
	if got := c.Contents()[0].Quantity.Amount; !got.Equal(dec("7")) {
		t.Fatalf("remaining = %s, want 7", got)
	}

	if err := c.HeatContents(Temp(35, Celsius)); err != nil {
		t.Fatalf("HeatContents: %v", err)
	}
	if got := c.Contents()[0].Temperature; !got.Equal(Temp(35, Celsius)) {
		t.Fatalf("temperature = %s, want 35 C", got)
	}

	removed, err = c.RemoveContent("WATER", Qty(2, Liter))
	if err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}
	if got := removed[0].Temperature; !got.Equal(Temp(35, Celsius)) {
		t.Fatalf("removed temperature = %s, want 35 C", got)
	}
	checkInvariants(t, c)
}

func TestAddDefaults(t *testing.T) {
	c := newTestContainer(t, KindFermenter, Qty(30, Liter))
	mustAdd(t, c, "ale yeast", Qty(11, Gram))
	e := c.Contents()[0]
	if e.Type != ContentYeast || !e.Temperature.Equal(RoomTemperature()) || !e.UpdatedAt.Equal(testNow) {
		t.Fatalf("entry = %+v", e)
	}
	if !c.TotalFilled().IsZero() {
		t.Fatalf("grams took up litres: %s", c.TotalFilled())
	}

	at := testNow.Add(-time.Hour)
	err := c.AddEntry(Entry{Substance: "wort", Quantity: Qty(20, Liter), Type: ContentUnknown, Temperature: Temp(68, Fahrenheit), UpdatedAt: at})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	e = c.Contents()[1]
	if e.Type != ContentUnknown || e.Temperature.Unit != Fahrenheit || !e.UpdatedAt.Equal(at) {
		t.Fatalf("explicit fields not kept: %+v", e)
	}
}

func TestAddNeverMerges(t *testing.T) {
	c := newTestContainer(t, KindStorage, Qty(50, Liter))
	mustAdd(t, c, "water", Qty(5, Liter))
	mustAdd(t, c, "water", Qty(5, Liter))
	if n := len(c.Contents()); n != 2 {
		t.Fatalf("entries = %d, want 2", n)
	}
}

func TestAddRejects(t *testing.T) {
	c := newTestContainer(t, KindKeg, Qty(19, Liter))
	cases := []struct {
		name      string
		substance string
		q         Quantity
		want      error
	}{
		{"other volume unit", "beer", Qty(1, Gallon), ErrUnit},
		{"temperature amount", "beer", Qty(1, Celsius), ErrUnit},
		{"no unit", "beer", Quantity{Amount: dec("1")}, ErrUnit},
		{"zero", "beer", Qty(0, Liter), ErrInvalid},
		{"negative", "beer", Qty(-1, Liter), ErrInvalid},
		{"no name", " ", Qty(1, Liter), ErrInvalid},
	}
	for _, tc := range cases {
		if err := c.AddContent(tc.substance, tc.q); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if len(c.Contents()) != 0 {
		t.Fatalf("rejected additions changed the ledger: %+v", c.Contents())
	}
	if err := c.AddEntry(Entry{Substance: "beer", Quantity: Qty(1, Liter), Temperature: Temp(4, Liter)}); !errors.Is(err, ErrUnit) {
		t.Fatalf("litre temperature: %v", err)
	}
}

func TestOverflowOnAdd(t *testing.T) {
	c := newTestContainer(t, KindStorage, Qty(10, Liter))
	err := c.AddContent("water", Qty(12, Liter))

	var ce *CapacityExceededError
	if !errors.As(err, &ce) || !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if !ce.Remainder.Amount.Equal(dec("2")) || ce.Remainder.Unit != Liter {
		t.Fatalf("remainder = %s, want 2 l", ce.Remainder)
	}
	if !ce.Accepted.Amount.Equal(dec("10")) {
		t.Fatalf("accepted = %s, want 10 l", ce.Accepted)
	}
	contents := c.Contents()
	if len(contents) != 1 || !contents[0].Quantity.Amount.Equal(dec("10")) {
		t.Fatalf("contents = %+v, want 10 l water", contents)
	}
	if !c.Full() {
		t.Fatal("container not full")
	}

	// Nothing fits any more: no zero entry is recorded.
	err = c.AddContent("water", Qty(1, Liter))
	if !errors.As(err, &ce) || !ce.Accepted.IsZero() {
		t.Fatalf("second overflow = %v", err)
	}
	if len(c.Contents()) != 1 {
		t.Fatalf("full container gained an entry: %+v", c.Contents())
	}
	checkInvariants(t, c)
}

func TestWeightContainer(t *testing.T) {
	c := newTestContainer(t, KindStorage, Qty(25, Kilogram))
	mustAdd(t, c, "malt", Qty(20000, Gram))
	mustAdd(t, c, "hops", Qty(8, Pound))
	mustAdd(t, c, "water", Qty(5, Liter))

	want := dec("20").Add(dec("8").Mul(dec("0.45359237")))
	if got := c.TotalFilled().Amount; !approx(got, want) {
		t.Fatalf("TotalFilled = %s, want %s", got, want)
	}
	if err := c.AddContent("malt", Qty(2, Kilogram)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("overfill by weight: %v", err)
	}
	checkInvariants(t, c)
}

func TestRemoveAcrossEntries(t *testing.T) {
	c := newTestContainer(t, KindMashTun, Qty(35, Liter))
	mustAdd(t, c, "water", Qty(4, Liter))
	mustAdd(t, c, "malt", Qty(2, Kilogram))
	mustAdd(t, c, "water", Qty(6, Liter))

	removed, err := c.RemoveContent("water", Qty(5, Liter))
	if err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}
	if len(removed) != 2 || !removed[0].Quantity.Amount.Equal(dec("4")) || !removed[1].Quantity.Amount.Equal(dec("1")) {
		t.Fatalf("removed = %+v, want 4 l then 1 l", removed)
	}
	contents := c.Contents()
	if len(contents) != 2 || contents[0].Substance != "malt" || !contents[1].Quantity.Amount.Equal(dec("5")) {
		t.Fatalf("contents = %+v", contents)
	}
}

func TestRemoveInOtherUnit(t *testing.T) {
	c := newTestContainer(t, KindStorage, Qty(20, Kilogram))
	mustAdd(t, c, "malt", Qty(2, Kilogram))
	mustAdd(t, c, "malt", Qty(1, Kilogram))

	removed, err := c.RemoveContent("malt", Qty(2500, Gram))
	if err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}
	if len(removed) != 2 || !removed[1].Quantity.Amount.Equal(dec("0.5")) || removed[1].Quantity.Unit != Kilogram {
		t.Fatalf("removed = %+v", removed)
	}
	if got := c.TotalFilled().Amount; !got.Equal(dec("0.5")) {
		t.Fatalf("left = %s, want 0.5 kg", got)
	}
}

func TestRemovePartialAndNotFound(t *testing.T) {
	c := newTestContainer(t, KindKeg, Qty(19, Liter))
	mustAdd(t, c, "beer", Qty(19, Liter))

	removed, err := c.RemoveContent("beer", Qty(25, Liter))
	if err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}
	if len(removed) != 1 || !removed[0].Quantity.Amount.Equal(dec("19")) {
		t.Fatalf("removed = %+v", removed)
	}
	if len(c.Contents()) != 0 || c.Full() {
		t.Fatalf("keg not empty: %+v full=%v", c.Contents(), c.Full())
	}

	_, err = c.RemoveContent("cider", Qty(1, Liter))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Substance != "cider" {
		t.Fatalf("err = %v, want NotFoundError for cider", err)
	}
	if _, err := c.RemoveContent("beer", Qty(0, Liter)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero removal: %v", err)
	}
}

func TestHeatContentsRejectsUnit(t *testing.T) {
	c := newTestContainer(t, KindMashTun, Qty(35, Liter))
	mustAdd(t, c, "water", Qty(10, Liter))
	var ue *UnitError
	if err := c.HeatContents(Temperature{Degrees: dec("70"), Unit: Liter}); !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnitError", err)
	}
	if !c.Contents()[0].Temperature.Equal(RoomTemperature()) {
		t.Fatal("failed heat changed the temperature")
	}
}

func TestFillTo(t *testing.T) {
	c := newTestContainer(t, KindFermenter, Qty(30, Liter))
	mustAdd(t, c, "wort", Qty(20, Liter))

	if err := c.FillTo("water", Qty(25, Liter)); err != nil {
		t.Fatalf("FillTo: %v", err)
	}
	contents := c.Contents()
	if len(contents) != 2 || contents[1].Substance != "water" || !contents[1].Quantity.Amount.Equal(dec("5")) {
		t.Fatalf("contents = %+v", contents)
	}
	if err := c.FillTo("water", Qty(25, Liter)); err != nil || len(c.Contents()) != 2 {
		t.Fatalf("FillTo at level: %v, %d entries", err, len(c.Contents()))
	}
	if err := c.FillTo("water", Qty(10, Liter)); !errors.Is(err, ErrAboveLevel) {
		t.Fatalf("FillTo below: %v", err)
	}
	if err := c.FillTo("water", Qty(10, Kilogram)); !errors.Is(err, ErrUnit) {
		t.Fatalf("FillTo by weight: %v", err)
	}
	if err := c.FillTo("water", Qty(40, Liter)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("FillTo past size: %v", err)
	}
	if !c.Full() {
		t.Fatal("not full after overfilling")
	}
}

func TestFreeAndRemoveAll(t *testing.T) {
	c := newTestContainer(t, KindStorage, Qty(50, Liter))
	mustAdd(t, c, "beer", Qty(20, Liter))
	mustAdd(t, c, "hops", Qty(100, Gram))
	if got := c.Free().Amount; !got.Equal(dec("30")) {
		t.Fatalf("Free = %s, want 30", got)
	}

	removed := c.RemoveAll()
	if len(removed) != 2 || len(c.Contents()) != 0 || !c.Free().Amount.Equal(dec("50")) {
		t.Fatalf("RemoveAll = %+v, left %+v", removed, c.Contents())
	}

	err := c.AddAll([]Removed{
		{Substance: "beer", Quantity: Qty(45, Liter)},
		{Substance: "beer", Quantity: Qty(10, Liter)},
		{Substance: "hops", Quantity: Qty(100, Gram)},
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("AddAll: %v", err)
	}
	if n := len(c.Contents()); n != 3 {
		t.Fatalf("AddAll stopped early: %d entries", n)
	}
	checkInvariants(t, c)
}

func TestRestore(t *testing.T) {
	c := newTestContainer(t, KindKeg, Qty(19, Liter))
	mustAdd(t, c, "beer", Qty(19, Liter))
	st := c.Snapshot()
	st.ID = "keg-1"
	st.Full = false

	r, err := Restore(st)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if r.ID() != "keg-1" || !r.Full() {
		t.Fatalf("restored id=%q full=%v", r.ID(), r.Full())
	}

	st.Contents[0].Quantity = Qty(0, Liter)
	if _, err := Restore(st); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Restore with empty entry: %v", err)
	}

	st.Contents[0].Quantity = Qty(5, Gallon)
	if _, err := Restore(st); !errors.Is(err, ErrUnit) {
		t.Fatalf("Restore with gallons in a litre keg: %v", err)
	}
}

func TestLedgerProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	substances := []string{"water", "wort", "beer"}

	for round := 0; round < 50; round++ {
		c := newTestContainer(t, KindStorage, Qty(100, Liter))

		// Conservation: additions that fit sum up exactly.
		sum := dec("0")
		for i := 0; i < 5; i++ {
			q := Qty(float64(rng.Intn(150)+1)/10, Liter)
			mustAdd(t, c, substances[rng.Intn(len(substances))], q)
			sum = sum.Add(q.Amount)
		}
		if !c.TotalFilled().Amount.Equal(sum) {
			t.Fatalf("round %d: filled %s, added %s", round, c.TotalFilled(), sum)
		}

		// Removal soundness: remove then re-add restores the total.
		s := c.Contents()[0].Substance
		before := c.TotalFilled().Amount
		want := Qty(float64(rng.Intn(30)+1)/10, Liter)
		removed, err := c.RemoveContent(s, want)
		if err != nil {
			t.Fatalf("round %d: RemoveContent: %v", round, err)
		}
		if err := c.AddAll(removed); err != nil {
			t.Fatalf("round %d: AddAll: %v", round, err)
		}
		if !c.TotalFilled().Amount.Equal(before) {
			t.Fatalf("round %d: total %s after round trip, want %s", round, c.TotalFilled(), before)
		}

		// Capacity: random adds and removes never break the invariants.
		for i := 0; i < 20; i++ {
			s := substances[rng.Intn(len(substances))]
			q := Qty(float64(rng.Intn(400)+1)/10, Liter)
			if rng.Intn(2) == 0 {
				if err := c.AddContent(s, q); err != nil && !errors.Is(err, ErrCapacityExceeded) {
					t.Fatalf("round %d: AddContent: %v", round, err)
				}
			} else if _, err := c.RemoveContent(s, q); err != nil && !errors.Is(err, ErrNotFound) {
				t.Fatalf("round %d: RemoveContent: %v", round, err)
			}
			checkInvariants(t, c)
		}
	}
}

func TestEventsReachHooks(t *testing.T) {
	c := newTestContainer(t, KindKeg, Qty(10, Liter))
	c.SetID("keg-7")
	var kinds []EventKind
	c.OnEvent(func(ev Event) error {
		if ev.ContainerID != "keg-7" || ev.ContainerKind != KindKeg {
			t.Errorf("event from %q/%q", ev.ContainerID, ev.ContainerKind)
		}
		kinds = append(kinds, ev.Kind)
		return nil
	})
	c.OnEvent(func(Event) error { return errors.New("hook failures are only logged") })

	mustAdd(t, c, "beer", Qty(8, Liter))
	_ = c.AddContent("beer", Qty(4, Liter))
	if err := c.HeatContents(Temp(4, Celsius)); err != nil {
		t.Fatalf("HeatContents: %v", err)
	}
	if _, err := c.RemoveContent("beer", Qty(1, Liter)); err != nil {
		t.Fatalf("RemoveContent: %v", err)
	}

	want := []EventKind{EventAdded, EventAdded, EventOverflow, EventHeated, EventRemoved}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}
