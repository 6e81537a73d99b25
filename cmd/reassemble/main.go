package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dusk-indust/reassemble/internal/config"
	"github.com/dusk-indust/reassemble/internal/logging"
	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"github.com/dusk-indust/reassemble/internal/watch"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

// cliFlags holds the persistent flags shared by every command.
type cliFlags struct {
	BatchSize   int
	LogLevel    string
	Root        string
	ConfigDir   string
	RetryDelay  time.Duration
	MaxAttempts uint64
	Workers     int
	Progress    bool
	Watch       bool
	Settle      time.Duration
	ServeMCP    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:   "reassemble",
		Short: "Rebuild split files from their numbered .FRAG- fragments",
		Long: `reassemble walks a directory tree, groups files named <base>.FRAG-<n>
by base path and rebuilds each base file by concatenating its fragments in
sorted order. Fragments are consumed.`,
		Args: cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, &flags)
			if err != nil {
				return err
			}
			if flags.ServeMCP {
				return runServeMCP(cmd, s)
			}
			return runReconstruct(cmd, s)
		},
	}

	pf := root.PersistentFlags()
	pf.IntVarP(&flags.BatchSize, "number", "n", orchestrator.DefaultBatchSize, "fragments or tasks merged per step (2-100)")
	pf.StringVar(&flags.LogLevel, "log", "info", "log level: debug, info, warning, error, fatal")
	pf.StringVar(&flags.Root, "root", ".", "directory to search for fragments")
	pf.StringVar(&flags.ConfigDir, "config", "", "directory holding reassemble.yml (default: --root)")
	pf.DurationVar(&flags.RetryDelay, "retry-delay", 0, "wait between attempts of a failed concatenation (default 5s)")
	pf.Uint64Var(&flags.MaxAttempts, "max-attempts", 0, "give up a concatenation after this many attempts (0 = never)")
	pf.IntVar(&flags.Workers, "workers", 0, "maximum concurrent concatenations (0 = unlimited)")
	root.Flags().BoolVar(&flags.Progress, "progress", false, "print task progress to stderr")
	root.Flags().BoolVar(&flags.Watch, "watch", false, "keep running and rebuild files as new fragments arrive")
	root.Flags().DurationVar(&flags.Settle, "settle", watch.DefaultSettle, "with --watch, quiet period before fragments are rebuilt")
	root.Flags().BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server on stdio")

	root.AddCommand(
		newStatusCmd(&flags),
		newPlanCmd(&flags),
		newDiagramCmd(&flags),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// settings is the resolved configuration for one invocation.
type settings struct {
	cfg      orchestrator.Config
	log      zerolog.Logger
	progress bool
	watch    bool
	settle   time.Duration
}

// loadSettings merges defaults, the project file and explicitly set flags,
// in that order, and validates the result.
func loadSettings(cmd *cobra.Command, flags *cliFlags) (settings, error) {
	changed := cmd.Flags().Changed

	dir := flags.ConfigDir
	if dir == "" {
		dir = flags.Root
	}
	project, err := config.Load(dir)
	if err != nil {
		return settings{}, err
	}

	cfg := project.Apply(orchestrator.DefaultConfig())
	if changed("root") || cfg.Root == "" {
		cfg.Root = flags.Root
	}
	if changed("number") {
		cfg.BatchSize = flags.BatchSize
	}
	if changed("retry-delay") {
		cfg.Retry.Delay = flags.RetryDelay
	}
	if changed("max-attempts") {
		cfg.Retry.MaxAttempts = flags.MaxAttempts
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	level := project.LogLevel
	if changed("log") || level == "" {
		level = flags.LogLevel
	}
	log, err := logging.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return settings{}, err
	}

	return settings{
		cfg:      cfg,
		log:      log,
		progress: flags.Progress || project.Progress,
		watch:    flags.Watch,
		settle:   flags.Settle,
	}, nil
}
