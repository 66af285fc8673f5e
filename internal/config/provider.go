package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFile is the project configuration file name
	ConfigFile = "dloop.toml"
	// DefaultDataDir holds the state store, ledger and local feeds
	DefaultDataDir = ".dloop"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(projectRoot, dataDir)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        dataDir,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		MetricsOut:     v.GetString("metrics_out"),
	}

	if caller := v.GetString("as"); caller != "" {
		addr, err := parseAddress("--as", caller)
		if err != nil {
			return nil, err
		}
		cfg.Caller = addr
	}

	// Load .env files first for variable expansion
	loadEnvFiles(projectRoot)

	fileCfg, path, err := loadDloopConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.ConfigSource = path

	if err := resolve(fileCfg, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	// Flag and environment overrides
	if rpcURL := v.GetString("rpc_url"); rpcURL != "" {
		cfg.Oracle.RPCURL = rpcURL
	}
	if cfg.LedgerFile != "" && !filepath.IsAbs(cfg.LedgerFile) {
		cfg.LedgerFile = filepath.Join(projectRoot, cfg.LedgerFile)
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find dloop.toml.
// The current directory is used when no parent holds one.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, ConfigFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DefaultDataDir))

	// Set up environment variables
	v.SetEnvPrefix("DLOOP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

func parseAddress(field, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: %q is not a hex address", field, s)
	}
	return common.HexToAddress(s), nil
}
