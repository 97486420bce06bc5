package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fattybrewing"
)

func addCmd(a *app) *cobra.Command {
	var temp, typ, category string

	c := &cobra.Command{
		Use:   "add ID SUBSTANCE AMOUNT",
		Short: "Add a substance to a container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.svc.ParseAmount(cmd.Context(), args[0], args[2], category)
			if err != nil {
				return err
			}
			e := fattybrewing.Entry{Substance: args[1], Quantity: q}
			if temp != "" {
				if e.Temperature, err = fattybrewing.ParseTemperature(temp); err != nil {
					return err
				}
			}
			if typ != "" {
				e.Type = fattybrewing.ParseContentType(typ)
			}
			st, err := a.svc.Add(cmd.Context(), args[0], e)
			var overflow *fattybrewing.CapacityExceededError
			if errors.As(err, &overflow) {
				fmt.Fprintf(cmd.OutOrStdout(), "container full, %s of %s not added\n", overflow.Remainder, args[1])
				printContainer(cmd.OutOrStdout(), st)
				return nil
			}
			if err != nil {
				return err
			}
			printContainer(cmd.OutOrStdout(), st)
			return nil
		},
	}

	c.Flags().StringVar(&temp, "temp", "", "temperature, e.g. 70C (default room temperature)")
	c.Flags().StringVar(&typ, "type", "", "content type, derived from the substance if empty")
	c.Flags().StringVar(&category, "category", "", `"weight" or "volume"; decides what "oz" means (default: the container's)`)
	return c
}

func removeCmd(a *app) *cobra.Command {
	var category string

	c := &cobra.Command{
		Use:   "remove ID SUBSTANCE AMOUNT",
		Short: "Take an amount of a substance out of a container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.svc.ParseAmount(cmd.Context(), args[0], args[2], category)
			if err != nil {
				return err
			}
			removed, err := a.svc.Remove(cmd.Context(), args[0], args[1], q)
			if err != nil {
				return err
			}
			printRemoved(cmd.OutOrStdout(), "removed", removed)
			return nil
		},
	}

	c.Flags().StringVar(&category, "category", "", `"weight" or "volume"; decides what "oz" means (default: the container's)`)
	return c
}

func heatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "heat ID TEMP",
		Short: "Set the temperature of everything in a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := fattybrewing.ParseTemperature(args[1])
			if err != nil {
				return err
			}
			return a.svc.Heat(cmd.Context(), args[0], t)
		},
	}
}

func fillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill ID SUBSTANCE LEVEL",
		Short: "Add SUBSTANCE until the container holds LEVEL",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := a.svc.ParseAmount(cmd.Context(), args[0], args[2], "")
			if err != nil {
				return err
			}
			st, err := a.svc.FillTo(cmd.Context(), args[0], args[1], level)
			if err != nil && !errors.Is(err, fattybrewing.ErrCapacityExceeded) {
				return err
			}
			printContainer(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
