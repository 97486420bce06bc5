package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fattybrewing"
	"fattybrewing/internal/brewhouse"
	"fattybrewing/internal/logger"
)

func main() {
	ctx := context.Background()
	logger.Set(logger.New("dev", os.Stderr))

	// Open SQLite store
	store, err := fattybrewing.OpenSQLite("brewday.db")
	if err != nil {
		panic(err)
	}
	defer store.Close()

	svc := brewhouse.New(store)

	// Register the brewhouse
	tun := mustCreate(ctx, svc, fattybrewing.KindMashTun, "Mash Tun", fattybrewing.Qty(35, fattybrewing.Liter))
	fermenter := mustCreate(ctx, svc, fattybrewing.KindFermenter, "Fermenter", fattybrewing.Qty(30, fattybrewing.Liter))
	kegs := []string{
		mustCreate(ctx, svc, fattybrewing.KindKeg, "Keg 1", fattybrewing.Qty(19, fattybrewing.Liter)),
		mustCreate(ctx, svc, fattybrewing.KindKeg, "Keg 2", fattybrewing.Qty(19, fattybrewing.Liter)),
	}

	// Mash
	for _, e := range []fattybrewing.Entry{
		{Substance: "water", Quantity: fattybrewing.Qty(20, fattybrewing.Liter)},
		{Substance: "malt", Quantity: fattybrewing.Qty(5, fattybrewing.Kilogram)},
		{Substance: "hops", Quantity: fattybrewing.Qty(60, fattybrewing.Gram)},
	} {
		if _, err := svc.Add(ctx, tun, e); err != nil {
			panic(err)
		}
	}
	if err := svc.Heat(ctx, tun, fattybrewing.Temp(67, fattybrewing.Celsius)); err != nil {
		panic(err)
	}
	if _, err := svc.ConvertToWort(ctx, tun); err != nil {
		panic(err)
	}

	// Ferment and package
	if _, err := svc.Transfer(ctx, tun, fermenter); err != nil {
		panic(err)
	}
	if _, err := svc.Add(ctx, fermenter, fattybrewing.Entry{Substance: "yeast", Quantity: fattybrewing.Qty(11, fattybrewing.Gram)}); err != nil {
		panic(err)
	}
	if _, err := svc.Ferment(ctx, fermenter, 14*24*time.Hour); err != nil {
		panic(err)
	}
	if err := svc.Keg(ctx, fermenter, kegs); err != nil && !errors.Is(err, fattybrewing.ErrPackaging) {
		panic(err)
	}

	states, err := svc.List(ctx)
	if err != nil {
		panic(err)
	}
	for _, st := range states {
		fmt.Printf("%-10s %-9s %s\n", st.Name, st.Kind, st.Size)
		for _, e := range st.Contents {
			fmt.Printf("  %-10s %s at %s\n", e.Substance, e.Quantity, e.Temperature)
		}
	}
}

func mustCreate(ctx context.Context, svc *brewhouse.Service, kind fattybrewing.Kind, name string, size fattybrewing.Quantity) string {
	st, err := svc.Create(ctx, kind, name, size)
	if err != nil {
		panic(err)
	}
	return st.ID
}
