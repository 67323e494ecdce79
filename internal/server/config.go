package server

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/filemanager/filemanager/internal/utils"
)

const (
	DefaultAddr      = "127.0.0.1:7938"
	DefaultRateLimit = "300-M"
	DefaultDBName    = "filemanager.db"
)

var (
	ErrNoRootDir   = errors.New("root directory is required")
	ErrRootMissing = errors.New("root directory does not exist")
	ErrTLSConfig   = errors.New("both cert and key files are required for tls")
)

type Config struct {
	RootDir   string           `mapstructure:"root_dir"`
	DBPath    string           `mapstructure:"db_path"`
	AuthToken string           `mapstructure:"auth_token"`
	RateLimit string           `mapstructure:"rate_limit"`
	HTTP      HTTPServerConfig `mapstructure:"http"`
}

type HTTPServerConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// TLS reports whether both the certificate and key are configured.
func (h HTTPServerConfig) TLS() bool {
	return h.CertFile != "" && h.KeyFile != ""
}

// Validate normalises paths and fills defaults.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return ErrNoRootDir
	}

	root, err := utils.ResolvePath(c.RootDir)
	if err != nil {
		return fmt.Errorf("root dir: %w", err)
	}
	if !utils.DirExists(root) {
		return fmt.Errorf("%w: %s", ErrRootMissing, root)
	}
	c.RootDir = root

	if c.DBPath == "" {
		c.DBPath = filepath.Join(root, ".filemanager", DefaultDBName)
	} else if c.DBPath, err = utils.ResolvePath(c.DBPath); err != nil {
		return fmt.Errorf("db path: %w", err)
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.RateLimit == "" {
		c.RateLimit = DefaultRateLimit
	}

	if (c.HTTP.CertFile == "") != (c.HTTP.KeyFile == "") {
		return ErrTLSConfig
	}
	if c.HTTP.TLS() {
		if !utils.FileExists(c.HTTP.CertFile) {
			return fmt.Errorf("cert file not found: %s", c.HTTP.CertFile)
		}
		if !utils.FileExists(c.HTTP.KeyFile) {
			return fmt.Errorf("key file not found: %s", c.HTTP.KeyFile)
		}
	}

	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("root_dir", c.RootDir),
		slog.String("db_path", c.DBPath),
		slog.String("addr", c.HTTP.Addr),
		slog.Bool("tls", c.HTTP.TLS()),
		slog.String("rate_limit", c.RateLimit),
		slog.String("auth_token", utils.MaskSecret(c.AuthToken)),
	)
}
