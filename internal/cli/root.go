package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fattybrewing"
	"fattybrewing/internal/brewhouse"
	"fattybrewing/internal/config"
	"fattybrewing/internal/logger"
	"fattybrewing/internal/metrics"
	"fattybrewing/postgres"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is what every subcommand works with. It is built in the root's
// PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	cfg     config.Config
	store   fattybrewing.Store
	svc     *brewhouse.Service
	metrics *metrics.Metrics
	close   func() error
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		dbPath  string
		debug   bool
		a       = &app{}
	)

	cmd := &cobra.Command{
		Use:          "brewctl",
		Short:        "brewctl - track what is in every brewing container",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if dbPath != "" {
				cfg.Store.Driver = config.DriverSQLite
				cfg.Store.DSN = dbPath
			}
			if debug {
				cfg.App.Env = "dev"
			}
			logger.Set(logger.New(cfg.App.Env, cmd.ErrOrStderr()))
			return a.open(cmd.Context(), cfg)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.finish()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database file, overrides store settings")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	cmd.AddCommand(
		createCmd(a),
		listCmd(a),
		showCmd(a),
		findCmd(a),
		addCmd(a),
		removeCmd(a),
		heatCmd(a),
		fillCmd(a),
		wortCmd(a),
		fermentCmd(a),
		kegCmd(a),
		transferCmd(a),
		archiveCmd(a),
		restoreCmd(a),
		reportCmd(a),
		serveCmd(a),
	)
	return cmd
}

func (a *app) open(ctx context.Context, cfg config.Config) error {
	store, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.store = store
	a.close = closeFn

	var opts []brewhouse.Option
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
		opts = append(opts, brewhouse.WithMetrics(a.metrics))
	}
	a.svc = brewhouse.New(store, opts...)
	return nil
}

func (a *app) finish() error {
	var err error
	if a.metrics != nil && a.cfg.Metrics.Textfile != "" {
		err = a.metrics.WriteTextfile(a.cfg.Metrics.Textfile)
	}
	if a.close != nil {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}
	return err
}

func openStore(ctx context.Context, cfg config.Config) (fattybrewing.Store, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return fattybrewing.NewMemoryStore(), func() error { return nil }, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { s.Close(); return nil }, nil
	default:
		s, err := fattybrewing.OpenSQLite(cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}

func printContainer(w io.Writer, st fattybrewing.State) {
	c, err := fattybrewing.Restore(st)
	if err != nil {
		fmt.Fprintf(w, "%s\t%s\t%s\t(unreadable: %v)\n", st.ID, st.Kind, st.Name, err)
		return
	}
	full := ""
	if st.Full {
		full = "\tfull"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s / %s%s\n", st.ID, st.Kind, st.Name, c.TotalFilled(), st.Size, full)
}

func printContents(w io.Writer, st fattybrewing.State) {
	for _, e := range st.Contents {
		fmt.Fprintf(w, "  %-14s %-8s %12s  %s  %s\n",
			e.Substance, e.Type, e.Quantity, e.Temperature, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func printRemoved(w io.Writer, verb string, rs []fattybrewing.Removed) {
	for _, r := range rs {
		fmt.Fprintf(w, "%s %s %s\n", verb, r.Quantity, r.Substance)
	}
}
