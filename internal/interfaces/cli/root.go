// Package cli implements the rxnavail command line interface.
package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rxn4chemistry/rxn-availability/internal/config"
	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/database/postgres"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/database/redis"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/metrics"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string
}

// cliContext carries initialized dependencies through the command tree.
type cliContext struct {
	cfg      *config.Config
	logger   logging.Logger
	opts     *RootOptions
	registry *prometheus.Registry
	closers  []func()
}

type cliContextKey struct{}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rxnavail",
		Short: "Query compound availability",
		Long: `rxnavail answers whether chemical compounds, given as SMILES strings,
are available as starting materials: it combines a bundled compound list,
always-available compound families, user-provided lists, and catalog
databases, with user exclusions taking precedence.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := initContext(opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cc))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if cc := getContext(cmd); cc != nil {
				for _, closer := range cc.closers {
					closer()
				}
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file (defaults to RXN_* environment variables)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "text", "output format (text|json)")

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newMigrateCommand())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

func initContext(opts *RootOptions) (*cliContext, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	cc := &cliContext{
		cfg:      cfg,
		logger:   logger,
		opts:     opts,
		registry: prometheus.NewRegistry(),
	}
	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Addr, cc.registry, logger)
		srv.Start()
		cc.closers = append(cc.closers, srv.Stop)
	}
	return cc, nil
}

func getContext(cmd *cobra.Command) *cliContext {
	cc, _ := cmd.Context().Value(cliContextKey{}).(*cliContext)
	return cc
}

// buildChecker assembles the availability checker from the loaded
// configuration, connecting any configured catalog databases.
func (cc *cliContext) buildChecker(ctx context.Context) (*availability.Checker, error) {
	av := cc.cfg.Availability

	opts := []availability.CheckerOption{
		availability.WithLogger(cc.logger),
		availability.WithObserver(metrics.NewObserver(cc.registry)),
		availability.WithPricingThreshold(av.PricingThreshold),
		availability.WithMaterialsExclusive(av.MaterialsExclusive),
		availability.WithAlwaysAvailable(av.AlwaysAvailable...),
		availability.WithModelAvailable(av.ModelAvailable...),
		availability.WithExcluded(av.Excluded...),
		availability.WithAvoidSubstructure(av.AvoidSubstructure...),
	}
	if av.AdditionalCompoundsFile != "" {
		opts = append(opts, availability.WithAdditionalCompoundsFile(av.AdditionalCompoundsFile))
	}

	// Sorted for a deterministic source order.
	names := make([]string, 0, len(cc.cfg.Databases))
	for name := range cc.cfg.Databases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		db, err := cc.connectDatabase(ctx, name, cc.cfg.Databases[name])
		if err != nil {
			return nil, err
		}
		opts = append(opts, availability.WithDatabase(db))
	}

	return availability.NewChecker(opts...)
}

func (cc *cliContext) connectDatabase(ctx context.Context, name string, dbCfg config.DatabaseConfig) (availability.Database, error) {
	switch dbCfg.Driver {
	case "redis":
		redisCfg := dbCfg.Redis
		client, err := redis.NewClient(&redisCfg, cc.logger)
		if err != nil {
			return nil, err
		}
		cc.closers = append(cc.closers, func() { _ = client.Close() })
		return redis.NewCatalog(client, name), nil
	case "postgres":
		conn, err := postgres.NewConnection(ctx, dbCfg.Postgres, cc.logger)
		if err != nil {
			return nil, err
		}
		cc.closers = append(cc.closers, conn.Close)
		return postgres.NewCatalog(conn, name), nil
	}
	return nil, fmt.Errorf("database %q: unknown driver %q", name, dbCfg.Driver)
}
