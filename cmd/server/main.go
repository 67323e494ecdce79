package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/filemanager/filemanager/internal/server"
	"github.com/filemanager/filemanager/internal/utils"
	"github.com/filemanager/filemanager/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FILEMANAGER"

var (
	home, _        = os.UserHomeDir()
	defaultLogFile = filepath.Join(home, ".filemanager", "logs", "filemanager-server.log")
)

var rootCmd = &cobra.Command{
	Use:     "filemanager-server",
	Short:   "FileManager backend: directory listing and sync jobs over HTTP",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		defer slog.Info("Bye!")
		return srv.Start(cmd.Context())
	},
}

func init() {
	addServerFlags(rootCmd)
	rootCmd.PersistentFlags().String("log-file", defaultLogFile, "Log file path")
	rootCmd.AddCommand(newVersionCmd())
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("root", "r", ".", "Directory served to clients")
	cmd.Flags().String("db", "", "Path to the sqlite database (default <root>/.filemanager/filemanager.db)")
	cmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	cmd.Flags().StringP("cert", "c", "", "Path to the certificate file")
	cmd.Flags().StringP("key", "k", "", "Path to the key file")
	cmd.Flags().String("token", "", "Bearer token required by /api/v1 (empty disables auth)")
	cmd.Flags().String("rate-limit", server.DefaultRateLimit, "Per-IP rate limit for /api/v1")
	cmd.Flags().String("config", "", "Config file (json or yaml)")
}

func main() {
	// values already in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// closeLog flushes the log file opened by setupLogging.
var closeLog = func() {}

func setupLogging(cmd *cobra.Command) error {
	logFile, _ := cmd.Flags().GetString("log-file")
	closer, err := utils.SetupLogger(utils.LogOptions{
		Level:   slog.LevelDebug,
		Console: os.Stdout,
		File:    logFile,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	closeLog = closer
	return nil
}

// loadConfig merges flags, FILEMANAGER_* env vars and the optional config
// file into a server config. Flags set on the command line win.
func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".filemanager"))
		v.AddConfigPath(filepath.Join(home, ".config", "filemanager"))
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for key, flag := range map[string]string{
		"root_dir":       "root",
		"db_path":        "db",
		"http.addr":      "bind",
		"http.cert_file": "cert",
		"http.key_file":  "key",
		"auth_token":     "token",
		"rate_limit":     "rate-limit",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg server.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	return &cfg, nil
}
