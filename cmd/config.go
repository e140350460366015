package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set matchstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "db_path: %s\n", cfg.DBPath)
		if cfg.CSVPath != "" {
			fmt.Fprintf(out, "csv_path: %s\n", cfg.CSVPath)
		}
		fmt.Fprintf(out, "top_teams: %d\n", cfg.TopTeams)
		fmt.Fprintf(out, "top_matches: %d\n", cfg.TopMatches)
		fmt.Fprintf(out, "top_referees: %d\n", cfg.TopReferees)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// File and defaults only, so env and flag overrides are not persisted.
		c, err := config.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "db_path":
			c.DBPath = val
		case "csv_path":
			c.CSVPath = val
		case "listen_addr":
			c.ListenAddr = val
		case "log_level":
			if _, err := logrus.ParseLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %w", err)
			}
			c.LogLevel = val
		case "top_teams":
			if c.TopTeams, err = positiveInt(key, val); err != nil {
				return err
			}
		case "top_matches":
			if c.TopMatches, err = positiveInt(key, val); err != nil {
				return err
			}
		case "top_referees":
			if c.TopReferees, err = positiveInt(key, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		path, err := config.Save(c, cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", key, path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func positiveInt(key, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid int for %s: %q (must be positive)", key, val)
	}
	return n, nil
}
