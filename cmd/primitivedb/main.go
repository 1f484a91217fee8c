package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leengari/primitive-db/internal/command"
	"github.com/leengari/primitive-db/internal/config"
	"github.com/leengari/primitive-db/internal/engine"
	"github.com/leengari/primitive-db/internal/logging"
	"github.com/leengari/primitive-db/internal/network"
	"github.com/leengari/primitive-db/internal/repl"
)

// errCommandFailed marks an exec failure whose result was already printed
var errCommandFailed = errors.New("command failed")

var (
	configPath string
	dataDir    string
	assumeYes  bool
	serveAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "primitivedb",
	Short: "A primitive table store driven by a small command language",
	Long: `primitivedb keeps tables as JSON files in a data directory and manipulates
them with commands such as create_table, insert, select, update and delete.

Run without arguments for an interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, cfg *config.Config) error {
			return repl.Start(eng, repl.Options{
				Prompt:      cfg.Shell.Prompt,
				HistoryFile: cfg.Shell.HistoryFile,
				AssumeYes:   cfg.Shell.AssumeYes,
			})
		})
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Run a single command and exit",
	Example: `  primitivedb exec 'create_table users name:str age:int'
  primitivedb exec --yes 'drop_table users'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")
		return withEngine(func(eng *engine.Engine, cfg *config.Config) error {
			if cfg.Shell.AssumeYes {
				eng.SetConfirmer(command.AlwaysConfirm)
			}
			res := eng.Execute(line)
			repl.PrintResult(os.Stdout, res)
			if !res.Success {
				return errCommandFailed
			}
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command language as newline-delimited JSON over TCP",
	Example: `  primitivedb serve --addr 127.0.0.1:4546
  echo '{"command":"list_tables"}' | nc 127.0.0.1 4546`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, cfg *config.Config) error {
			addr := cfg.Server.Addr
			if serveAddr != "" {
				addr = serveAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return network.NewServer(eng).ListenAndServe(ctx, addr)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(execCmd, serveCmd)
}

// withEngine loads configuration, sets up logging and opens the data
// directory for the duration of fn.
func withEngine(fn func(*engine.Engine, *config.Config) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if assumeYes {
		cfg.Shell.AssumeYes = true
	}

	logger, closeFn, err := logging.SetupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeFn()
	slog.SetDefault(logger)

	eng, err := engine.Open(cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			slog.Error("failed to release data directory lock", "error", err)
		}
	}()
	eng.AddObserver(engine.NewLoggingObserver(slog.Default()))

	slog.Info("database opened", "data_dir", cfg.Storage.DataDir, "tables", len(eng.Manager().ListTables()))
	return fn(eng, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
