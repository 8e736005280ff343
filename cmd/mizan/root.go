package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mizan/internal/config"
	"mizan/internal/logging"
	"mizan/internal/volume"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "mizan",
	Short:         "Read and search Mizan al Hikmah",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultConfigFile, "config file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// app - what every subcommand starts from
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *volume.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  volume.NewStore(newFetcher(cfg.Data), cfg.Data.Pattern, cfg.Data.Volumes, logger),
	}, nil
}

// newFetcher - an HTTP origin when one is configured, the local data directory otherwise
func newFetcher(data config.DataConfig) volume.Fetcher {
	if data.BaseURL != "" {
		return volume.NewHTTPFetcher(data.BaseURL, &http.Client{Timeout: volume.DefaultFetchTimeout})
	}
	return volume.NewDirFetcher(data.Dir)
}

func (a *app) close() {
	a.logger.Sync()
}
