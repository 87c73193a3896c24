package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/pkg/buildinfo"
	"github.com/matzehuels/issuegraph/pkg/config"
	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/graphview"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "issuegraph"

	// defaultProject keys positions when --project is not given.
	defaultProject = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	project    string
	backend    string
	handset    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "issuegraph draws a project's components, interfaces and issues as one diagram",
		Long: `issuegraph builds an interactive architecture diagram from a project snapshot:
components and the interfaces they offer and consume, each decorated with
folders counting its open issues by category. Node positions persist per
project, so the diagram looks the same every time it is opened.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/issuegraph/config.toml)")
	flags.StringVarP(&c.project, "project", "p", defaultProject, "project key positions are saved under")
	flags.StringVar(&c.backend, "store", "", fmt.Sprintf("position store backend %v (overrides config)", positions.Backends()))
	flags.BoolVar(&c.handset, "handset", false, "treat plain clicks as navigation, as on a phone")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.handset {
		cfg.Client.Handset = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openStore opens the configured position store.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (positions.Store, error) {
	opts := cfg.StoreOptions()
	opts.Logger = c.Logger
	store, err := positions.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	c.Logger.Debug("opened position store", "backend", opts.Backend)
	return store, nil
}

// viewOptions converts the config into view options.
func (c *CLI) viewOptions(cfg config.Config) graphview.Options {
	return graphview.Options{
		Layout:  cfg.LayoutConfig(),
		Handset: cfg.Client.Handset,
		Logger:  c.Logger,
	}
}

// session is everything a one-shot command needs to build a diagram.
type session struct {
	cfg   config.Config
	store positions.Store
	view  *graphview.View
}

func (s *session) Close() error { return s.store.Close() }

// openSession loads config, opens the store and the view of the current
// project.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	if err := errors.ValidateProject(c.project); err != nil {
		return nil, err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	view, err := graphview.Open(ctx, c.project, store, c.viewOptions(cfg))
	if err != nil {
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: store, view: view}, nil
}

// readSnapshot reads a snapshot file and logs its reference warnings.
func (c *CLI) readSnapshot(path string) (*snapshot.Snapshot, error) {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range snap.Validate() {
		c.Logger.Warn("snapshot", "file", path, "warning", w)
	}
	c.Logger.Debug("read snapshot", "file", path, "components", len(snap.Components), "interfaces", len(snap.Interfaces))
	return snap, nil
}
