package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fattybrewing"
)

func wortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wort ID",
		Short: "Turn the mash in a mash tun into wort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replaced, err := a.svc.ConvertToWort(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, e := range replaced {
				fmt.Fprintf(cmd.OutOrStdout(), "used %s %s\n", e.Quantity, e.Substance)
			}
			return nil
		},
	}
}

func fermentCmd(a *app) *cobra.Command {
	var days float64

	c := &cobra.Command{
		Use:   "ferment ID",
		Short: "Ferment the wort in a fermenter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("%w: --days must be positive", fattybrewing.ErrInvalid)
			}
			d := time.Duration(days * float64(24*time.Hour))
			removed, err := a.svc.Ferment(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			printRemoved(cmd.OutOrStdout(), "fermented", removed)
			return nil
		},
	}

	c.Flags().Float64Var(&days, "days", 14, "fermentation time in days")
	return c
}

func kegCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keg FERMENTER KEG...",
		Short: "Package the beer in a fermenter into kegs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.svc.Keg(cmd.Context(), args[0], args[1:])
			var pe *fattybrewing.PackagingError
			if errors.As(err, &pe) && !pe.Unpackaged.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "out of kegs, %s left in %s\n", pe.Unpackaged, args[0])
			}
			return err
		},
	}
}

func transferCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer SRC DST",
		Short: "Move everything except spent solids from SRC to DST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rubbish, err := a.svc.Transfer(cmd.Context(), args[0], args[1])
			printRemoved(cmd.OutOrStdout(), "discarded", rubbish)
			return err
		},
	}
}
