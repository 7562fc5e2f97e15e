package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limetred/limetred/internal/config"
	"github.com/limetred/limetred/internal/logging"
	"github.com/limetred/limetred/internal/tui"
)

var (
	configFile string
	preset     string
	seed       uint64
	logFile    string
	verbose    bool
	envFile    string

	logger = zap.NewNop()
)

// main registers the commands and runs the root command; with no subcommand it opens the TUI.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "limetred",
		Short:         "prompt-to-launch studio for simulated on-chain apps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logging.Options{File: logFile, Verbose: verbose})
			if err != nil {
				return err
			}
			logger = l
			return config.LoadEnv(envFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset market configuration")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&logFile, "log", config.DefaultLogFile, `log file ("-" disables logging)`)
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&envFile, "env", ".env", "optional dotenv file with credentials")

	rootCmd.Flags().StringVar(&imagePath, "image", "", "reference image attached to the prompt")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newFrameCmd(),
		newSimulateCmd(),
		newPresetsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig resolves --config, then --preset, then defaults, applies --seed and checks
// the theme name, which config cannot see without importing tui.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if !slices.Contains(tui.ThemeNames(), cfg.UI.Theme) {
		return nil, fmt.Errorf("%w: unknown ui.theme %q (available: %v)", config.ErrInvalidConfig, cfg.UI.Theme, tui.ThemeNames())
	}
	cfg.LoadAPIKey()
	return cfg, nil
}
