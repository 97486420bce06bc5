package brewhouse

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"fattybrewing"
	"fattybrewing/archive"
	"fattybrewing/internal/metrics"
)

func create(t *testing.T, s *Service, kind fattybrewing.Kind, name string, size fattybrewing.Quantity) string {
	t.Helper()
	st, err := s.Create(context.Background(), kind, name, size)
	if err != nil {
		t.Fatalf("Create(%s): %v", kind, err)
	}
	if st.ID == "" {
		t.Fatalf("Create(%s) returned no id", kind)
	}
	return st.ID
}

func add(t *testing.T, s *Service, id, substance string, q fattybrewing.Quantity) {
	t.Helper()
	if _, err := s.Add(context.Background(), id, fattybrewing.Entry{Substance: substance, Quantity: q}); err != nil {
		t.Fatalf("Add(%s, %s): %v", substance, q, err)
	}
}

func TestBrewDay(t *testing.T) {
	ctx := context.Background()
	store := fattybrewing.NewMemoryStore()
	m := metrics.New()
	s := New(store, WithMetrics(m))

	tun := create(t, s, fattybrewing.KindMashTun, "tun", fattybrewing.Qty(35, fattybrewing.Liter))
	fermenter := create(t, s, fattybrewing.KindFermenter, "fermenter", fattybrewing.Qty(30, fattybrewing.Liter))
	keg1 := create(t, s, fattybrewing.KindKeg, "keg 1", fattybrewing.Qty(19, fattybrewing.Liter))
	keg2 := create(t, s, fattybrewing.KindKeg, "keg 2", fattybrewing.Qty(19, fattybrewing.Liter))

	add(t, s, tun, "water", fattybrewing.Qty(20, fattybrewing.Liter))
	add(t, s, tun, "malt", fattybrewing.Qty(5, fattybrewing.Kilogram))
	add(t, s, tun, "hops", fattybrewing.Qty(100, fattybrewing.Gram))
	if err := s.Heat(ctx, tun, fattybrewing.Temp(67, fattybrewing.Celsius)); err != nil {
		t.Fatalf("Heat: %v", err)
	}
	if _, err := s.ConvertToWort(ctx, tun); err != nil {
		t.Fatalf("ConvertToWort: %v", err)
	}

	rubbish, err := s.Transfer(ctx, tun, fermenter)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if len(rubbish) != 2 {
		t.Fatalf("rubbish = %+v, want used malt and used hops", rubbish)
	}

	if _, err := s.Ferment(ctx, fermenter, 14*24*time.Hour); err != nil {
		t.Fatalf("Ferment: %v", err)
	}
	if err := s.Keg(ctx, fermenter, []string{keg1, keg2}); err != nil {
		t.Fatalf("Keg: %v", err)
	}

	// Everything is read back from the store, not from the live cache.
	for id, want := range map[string]float64{keg1: 19, keg2: 1, fermenter: 0, tun: 0} {
		c, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load(%s): %v", id, err)
		}
		if got := c.TotalFilled().Amount; !got.Equal(fattybrewing.Qty(want, fattybrewing.Liter).Amount) {
			t.Errorf("container %s holds %s, want %v l", id, got, want)
		}
	}
	if got := testutil.ToFloat64(m.Events.WithLabelValues("kegged", "fermenter")); got != 2 {
		t.Fatalf("kegged events = %v, want 2", got)
	}
}

func TestAddOverflowIsSaved(t *testing.T) {
	ctx := context.Background()
	store := fattybrewing.NewMemoryStore()
	s := New(store)
	id := create(t, s, fattybrewing.KindKeg, "small", fattybrewing.Qty(10, fattybrewing.Liter))

	_, err := s.Add(ctx, id, fattybrewing.Entry{Substance: "beer", Quantity: fattybrewing.Qty(12, fattybrewing.Liter)})
	var ce *fattybrewing.CapacityExceededError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	c, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Full() || !c.TotalFilled().Amount.Equal(ce.Accepted.Amount) {
		t.Fatalf("stored keg full=%v filled=%s, want full with %s", c.Full(), c.TotalFilled(), ce.Accepted)
	}
}

func TestKegShortfallKeepsPackagedBeer(t *testing.T) {
	ctx := context.Background()
	store := fattybrewing.NewMemoryStore()
	s := New(store)
	fermenter := create(t, s, fattybrewing.KindFermenter, "f", fattybrewing.Qty(30, fattybrewing.Liter))
	keg := create(t, s, fattybrewing.KindKeg, "k", fattybrewing.Qty(19, fattybrewing.Liter))
	add(t, s, fermenter, "wort", fattybrewing.Qty(25, fattybrewing.Liter))
	if _, err := s.Ferment(ctx, fermenter, time.Hour); err != nil {
		t.Fatalf("Ferment: %v", err)
	}

	err := s.Keg(ctx, fermenter, []string{keg})
	var pe *fattybrewing.PackagingError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PackagingError", err)
	}
	if !pe.Unpackaged.Amount.Equal(fattybrewing.Qty(6, fattybrewing.Liter).Amount) {
		t.Fatalf("unpackaged = %s, want 6 l", pe.Unpackaged)
	}
	k, err := store.Load(ctx, keg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !k.Full() {
		t.Fatalf("stored keg not full: %s", k.TotalFilled())
	}
}

func TestWrongContainerKind(t *testing.T) {
	ctx := context.Background()
	s := New(fattybrewing.NewMemoryStore())
	keg := create(t, s, fattybrewing.KindKeg, "k", fattybrewing.Qty(19, fattybrewing.Liter))

	if _, err := s.Ferment(ctx, keg, time.Hour); !errors.Is(err, fattybrewing.ErrKind) {
		t.Fatalf("Ferment on keg: %v", err)
	}
	if _, err := s.ConvertToWort(ctx, keg); !errors.Is(err, fattybrewing.ErrKind) {
		t.Fatalf("ConvertToWort on keg: %v", err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, fattybrewing.ErrNotFound) {
		t.Fatalf("Get(missing): %v", err)
	}
}

func TestArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	store := fattybrewing.NewMemoryStore()
	s := New(store)
	id := create(t, s, fattybrewing.KindStorage, "cellar", fattybrewing.Qty(50, fattybrewing.Liter))
	add(t, s, id, "beer", fattybrewing.Qty(40, fattybrewing.Liter))

	var buf bytes.Buffer
	if err := s.Archive(ctx, id, archive.NewWriter(&buf)); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, fattybrewing.ErrNotFound) {
		t.Fatalf("Get after archive: %v", err)
	}

	records, err := archive.ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	st, err := s.Restore(ctx, records[0])
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if st.ID != id || len(st.Contents) != 1 {
		t.Fatalf("restored = %+v", st)
	}
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("Get after restore: %v", err)
	}
}

func TestParseAmountUsesContainerCategory(t *testing.T) {
	ctx := context.Background()
	s := New(fattybrewing.NewMemoryStore())
	bin := create(t, s, fattybrewing.KindStorage, "bin", fattybrewing.Qty(1, fattybrewing.Kilogram))
	tank := create(t, s, fattybrewing.KindStorage, "tank", fattybrewing.Qty(10, fattybrewing.Liter))

	cases := []struct {
		id, category string
		want         fattybrewing.Unit
	}{
		{bin, "", fattybrewing.Ounce},
		{tank, "", fattybrewing.FluidOunce},
		{tank, "weight", fattybrewing.Ounce},
		{bin, "Volume", fattybrewing.FluidOunce},
	}
	for _, c := range cases {
		q, err := s.ParseAmount(ctx, c.id, "4oz", c.category)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", c.category, err)
		}
		if q.Unit != c.want {
			t.Errorf("ParseAmount(%s, %q) unit = %+v, want %+v", c.id, c.category, q.Unit, c.want)
		}
	}

	if _, err := s.ParseAmount(ctx, "missing", "4oz", ""); !errors.Is(err, fattybrewing.ErrNotFound) {
		t.Fatalf("unknown container: %v", err)
	}
	if _, err := s.ParseAmount(ctx, bin, "4oz", "heat"); !errors.Is(err, fattybrewing.ErrUnit) {
		t.Fatalf("bad category: %v", err)
	}
}
