package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fattybrewing"
)

func createCmd(a *app) *cobra.Command {
	var kind, size, name string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := fattybrewing.ParseKind(kind)
			if err != nil {
				return err
			}
			q, err := fattybrewing.ParseSize(size)
			if err != nil {
				return err
			}
			st, err := a.svc.Create(cmd.Context(), k, name, q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.ID)
			return nil
		},
	}

	c.Flags().StringVarP(&kind, "type", "t", "", "mash_tun, fermenter, storage, keg or bottle (required)")
	c.Flags().StringVarP(&size, "size", "s", "", "capacity, e.g. 35L or 20kg (required)")
	c.Flags().StringVar(&name, "name", "", "display name")
	_ = c.MarkFlagRequired("type")
	_ = c.MarkFlagRequired("size")
	return c
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			states, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, st := range states {
				printContainer(cmd.OutOrStdout(), st)
			}
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a container and its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printContainer(cmd.OutOrStdout(), st)
			printContents(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func findCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find PATTERN",
		Short: "List containers whose name contains PATTERN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := a.svc.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, st := range states {
				printContainer(cmd.OutOrStdout(), st)
			}
			return nil
		},
	}
}
