// Package cli provides the command-line interface for satstore.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eodrift/satstore/internal/config"
	"github.com/eodrift/satstore/internal/logging"
	"github.com/eodrift/satstore/internal/progress"
	"github.com/eodrift/satstore/internal/storage"
	"github.com/eodrift/satstore/internal/storage/azure"
	"github.com/eodrift/satstore/internal/storage/localdir"
	"github.com/eodrift/satstore/internal/storage/s3"
	"github.com/eodrift/satstore/internal/version"
)

var (
	// Global flags
	cfgFile   string
	backend   string
	container string
	verbose   bool
	noProgress bool

	// Loaded configuration and global logger
	cfg    config.Config
	logger *logging.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "satstore",
		Short: "satstore - satellite product storage tool",
		Long: `satstore ` + version.Version + ` - Built: ` + version.BuildTime + `
Moves satellite imagery products between local directories and object
storage, and derives canonical storage prefixes from product filenames
(Sentinel-2, Sentinel-3, Landsat).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.NewDefaultLogger()

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			if backend != "" {
				cfg.Backend = backend
			}
			if container != "" {
				cfg.Container = container
			}

			if verbose {
				logging.SetGlobalLevel(logging.ParseLevel("debug"))
				azure.EnableSDKLogging(logger)
			} else {
				logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: azure, s3 or local (overrides config)")
	rootCmd.PersistentFlags().StringVar(&container, "container", "", "Container, bucket or directory to operate on (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages and SDK diagnostics)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable progress bars")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(
		newUploadCmd(),
		newDownloadCmd(),
		newListCmd(),
		newDeleteCmd(),
		newExistsCmd(),
		newCopyCmd(),
		newRenameCmd(),
		newPrefixCmd(),
	)

	return rootCmd
}

// Execute runs the root command with signal-aware context cancellation.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEngine builds the storage engine for the configured backend.
func newEngine(ctx context.Context) (*storage.Engine, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("no container configured (use --container or the config file)")
	}

	timeout := time.Duration(cfg.Transfer.TimeoutSeconds) * time.Second

	var store storage.ObjectStore
	var err error
	switch cfg.Backend {
	case config.BackendAzure:
		store, err = azure.NewStore(azure.Config{
			Container:        cfg.Container,
			ConnectionEnvVar: cfg.ConnectionEnv,
			Timeout:          timeout,
			Concurrency:      cfg.Transfer.Concurrency,
		}, logger)
	case config.BackendS3:
		store, err = s3.NewStore(ctx, s3.Config{
			Bucket:         cfg.Container,
			EndpointEnvVar: cfg.ConnectionEnv,
			Timeout:        timeout,
		}, logger)
	case config.BackendLocal:
		store, err = localdir.NewStore(cfg.Container)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	engine := storage.NewEngine(store, logger)
	if !noProgress {
		engine.SetReporter(progress.NewCLIReporter())
	}
	return engine, nil
}

// transferOptions builds TransferOptions from command flags.
func transferOptions(overwrite bool, retries int) storage.TransferOptions {
	if retries == 0 {
		retries = cfg.Transfer.Retries
	}
	return storage.TransferOptions{Overwrite: overwrite, Retries: retries}
}
