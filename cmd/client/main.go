package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/filemanager/filemanager/internal/sdk"
	"github.com/filemanager/filemanager/internal/utils"
	"github.com/filemanager/filemanager/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FILEMANAGER"

var (
	home, _        = os.UserHomeDir()
	configDir      = filepath.Join(home, ".filemanager")
	defaultLogFile = filepath.Join(configDir, "logs", "filemanager.log")
	configFileName = "client"
)

type clientConfig struct {
	ServerURL string `mapstructure:"server_url"`
	Token     string `mapstructure:"token"`
	Path      string `mapstructure:"-"`
}

var rootCmd = &cobra.Command{
	Use:     "filemanager",
	Short:   "Pick a source and destination directory and sync them",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		return runBrowseTUI(cmd.Context(), client, cfg.ServerURL)
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringP("server", "s", sdk.DefaultBaseURL, "FileManager server URL")
	rootCmd.PersistentFlags().String("token", "", "API token")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Client config file")
	rootCmd.PersistentFlags().String("log-file", defaultLogFile, "Log file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Also log to stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

var closeLog = func() {}

// setupLogging sends logs to the log file only, so they never draw over
// the TUI. --verbose adds stderr.
func setupLogging(cmd *cobra.Command) error {
	logFile, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := utils.LogOptions{Level: slog.LevelDebug, File: logFile}
	if verbose {
		opts.Console = os.Stderr
	}

	closer, err := utils.SetupLogger(opts)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	closeLog = closer
	return nil
}

func loadConfig(cmd *cobra.Command) (*clientConfig, error) {
	v := viper.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir)
		v.AddConfigPath(filepath.Join(home, ".config", "filemanager"))
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	v.BindPFlag("server_url", cmd.Flags().Lookup("server"))
	v.BindPFlag("token", cmd.Flags().Lookup("token"))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var cfg clientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	return &cfg, nil
}

func newClient(cmd *cobra.Command) (*sdk.Client, *clientConfig, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	client, err := sdk.New(&sdk.Config{
		BaseURL: cfg.ServerURL,
		Token:   cfg.Token,
		Retries: 2,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("server %q: %w", cfg.ServerURL, err)
	}

	slog.Debug("client config", "server", cfg.ServerURL, "token", utils.MaskSecret(cfg.Token), "config", cfg.Path)
	return client, cfg, nil
}
