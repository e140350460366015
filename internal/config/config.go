package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. MATCHSTATS_DB_PATH.
const EnvPrefix = "MATCHSTATS"

// Global configuration structure.
type Global struct {
	DBPath      string `mapstructure:"db_path" yaml:"db_path"`
	CSVPath     string `mapstructure:"csv_path" yaml:"csv_path"`
	TopTeams    int    `mapstructure:"top_teams" yaml:"top_teams"`
	TopMatches  int    `mapstructure:"top_matches" yaml:"top_matches"`
	TopReferees int    `mapstructure:"top_referees" yaml:"top_referees"`
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns ~/.matchstats, the default home of the config file and database.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".matchstats"
	}
	return filepath.Join(home, ".matchstats")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	return load(cfgFile, true)
}

// LoadFile loads configuration from file and defaults only, ignoring
// MATCHSTATS_* overrides. Use it when the result is written back with Save.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, withEnv bool) (*Global, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	v.SetDefault("db_path", filepath.Join(Dir(), "matches.db"))
	v.SetDefault("csv_path", "")
	v.SetDefault("top_teams", 5)
	v.SetDefault("top_matches", 10)
	v.SetDefault("top_referees", 10)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the given configuration to cfgFile, or ~/.matchstats/config.yaml
// when cfgFile is empty, creating the directory if necessary.
func Save(c *Global, cfgFile string) (string, error) {
	path := cfgFile
	if path == "" {
		dir := Dir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
