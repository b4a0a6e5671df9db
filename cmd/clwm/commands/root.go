// Package commands implements the clwm command tree.
package commands

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/am"
	"github.com/teranos/clwm/display"
	"github.com/teranos/clwm/editor"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/logger"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/world"
	"github.com/teranos/clwm/worldfile"
)

// session carries global flags and loaded configuration to every subcommand.
type session struct {
	file    string
	output  string
	logJSON bool
	verbose int

	cfg    *am.Config
	reader *bufio.Reader
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "clwm",
		Short: sym.World + " Command Line World Manager",
		Long: sym.World + ` clwm: Command Line World Manager

Model a world as nouns carrying typed, validated attributes. Every change is
recorded as a diff in the history tables.

Examples:
  clwm create world.clwm sqlite world.db   # Create a new world
  clwm new noun-type -t Person -m ""       # Declare a noun type
  clwm new noun -n Alice -t Person -m ""   # Add a noun
  clwm new data-type -n Age -d age.toml    # Define a data type from a file
  clwm get noun 1                          # Show a noun with its attributes
  clwm find attribute -o 1 --output json   # List the attributes of noun 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.file, "file", "f", "", "World file (default from world.file, "+am.DefaultWorldFile+")")
	flags.StringVar(&s.output, "output", "", "Output format: text, toml, yaml, json")
	flags.BoolVar(&s.logJSON, "log-json", false, "Write logs as JSON")
	flags.CountVarP(&s.verbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	root.AddCommand(
		newCreateCmd(s),
		newNewCmd(s),
		newUpdateCmd(s),
		newFindCmd(s),
		newGetCmd(s),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}

// init loads configuration, applies flag overrides and sets up logging.
func (s *session) init(cmd *cobra.Command) error {
	loaded, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	cfg := *loaded

	if s.file != "" {
		cfg.World.File = s.file
	}
	if s.output != "" {
		cfg.Output.Format = s.output
	}
	if s.logJSON {
		cfg.Log.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = &cfg

	if err := logger.Initialize(cfg.Log.JSON, s.verbose); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Logger.Debugw("configuration loaded",
		"verbosity", logger.Current().String(),
		logger.FieldFile, cfg.World.File,
		"output", cfg.Output.Format,
		"config_files", am.Sources())
	display.ConfigureStyling(cmd.OutOrStdout())
	return nil
}

// withEngine opens the world named by the configuration, runs fn and closes it.
func (s *session) withEngine(cmd *cobra.Command, fn func(ctx context.Context, e *world.Engine) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	file, err := worldfile.Load(s.cfg.World.File)
	if err != nil {
		return err
	}
	store, err := file.Open(ctx, logger.ComponentLogger("storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Logger.Warnw("failed to close world storage", logger.FieldError, err)
		}
	}()

	logger.Logger.Debugw("world opened",
		logger.FieldFile, file.Path(),
		logger.FieldPath, file.DatabasePath())

	engine := world.NewEngine(store,
		world.WithLogger(logger.ComponentLogger("world")),
		world.WithChangeSource(s.cfg.World.ChangeSource))
	return fn(ctx, engine)
}

func (s *session) printer(cmd *cobra.Command) *display.Printer {
	return display.NewPrinter(cmd.OutOrStdout(), s.cfg.Output.Format)
}

func (s *session) editor(cmd *cobra.Command) *editor.Editor {
	return editor.New(s.cfg.EditorCommand()).WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}
