package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fattybrewing/archive"
	"fattybrewing/internal/report"
)

func archiveCmd(a *app) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "archive ID",
		Short: "Append a container to an archive file and remove it from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.Store.Archive
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			if err := a.svc.Archive(cmd.Context(), args[0], archive.NewWriter(f)); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	c.Flags().StringVar(&out, "out", "", "archive file (default store.archive)")
	return c
}

func restoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Bring every container in an archive file back into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			records, err := archive.ReadAll(f)
			if err != nil {
				return err
			}
			for _, rec := range records {
				st, err := a.svc.Restore(cmd.Context(), rec)
				if err != nil {
					return fmt.Errorf("restore %s: %w", rec.ID, err)
				}
				printContainer(cmd.OutOrStdout(), st)
			}
			return nil
		},
	}
}

func reportCmd(a *app) *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:   "report",
		Short: "Export every container to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			states, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := report.Write(f, states); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d containers to %s\n", len(states), path)
			return nil
		},
	}

	c.Flags().StringVar(&path, "xlsx", "brewery.xlsx", "output workbook")
	return c
}
