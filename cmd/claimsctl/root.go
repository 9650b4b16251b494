// cmd/claimsctl/root.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"claims-registry/internal/claims/present"
	"claims-registry/internal/claims/record"
	"claims-registry/internal/claims/registry"
	"claims-registry/internal/claims/seed"
	"claims-registry/internal/common/config"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/models"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	seedPath   string
	sessionID  string
	format     string
	logLevel   string

	cfg      *config.Config
	log      *zap.Logger
	sessions *registry.Manager
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "claimsctl",
		Short:         "Inspect the claims registry from the command line",
		Long:          "Runs registry queries against the seed data, prints the provider directories and dashboard, and maintains the activity registry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (default: built-in registry settings)")
	f.StringVar(&a.seedPath, "seed", "", "seed file (default: embedded seed data)")
	f.StringVar(&a.sessionID, "session", "cli", "registry session id")
	f.StringVar(&a.format, "format", "table", "output format: table or json")
	f.StringVar(&a.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newListCmd(a),
		newProvidersCmd(a),
		newSummaryCmd(a),
		newActivitiesCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.format != "table" && a.format != "json" {
		return fmt.Errorf("unknown format %q", a.format)
	}

	a.log = logger.New(a.logLevel, "console")

	if a.configPath != "" {
		c, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = c
	}

	seedPath := a.seedPath
	if seedPath == "" && a.cfg != nil {
		seedPath = a.cfg.Registry.SeedPath
	}
	set, err := loadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	mcfg := registry.ManagerConfig{
		Seed:   set,
		Logger: logger.NewZapAdapter(a.log),
	}
	if a.cfg != nil {
		mcfg.PageSize = a.cfg.Registry.PageSize
		mcfg.EnforceTransitions = a.cfg.Registry.EnforceTransitions
		factory := record.NewFactory(models.ClaimStatus(a.cfg.Registry.DefaultStatus))
		if a.cfg.Registry.DateLayout != "" {
			factory.DateLayout = a.cfg.Registry.DateLayout
		}
		mcfg.Factory = factory
		mcfg.Presenter = present.NewAdapter(present.Config{
			CurrencySymbol: a.cfg.Registry.CurrencySymbol,
			DateLayout:     a.cfg.Registry.DateLayout,
		})
	}
	a.sessions = registry.NewManager(mcfg)
	return nil
}

func loadSeed(path string) (*seed.Set, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.Load(path)
}

func (a *app) session(cmd *cobra.Command) (*registry.Session, error) {
	return a.sessions.Get(cmd.Context(), a.sessionID)
}

func (a *app) jsonOutput() bool {
	return a.format == "json"
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
