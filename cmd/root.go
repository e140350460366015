package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/config"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/parser"
	"github.com/pable/go-match-stats/internal/storage"
)

var (
	dbPath       string
	csvPath      string
	importPrefix string
	cfgFile      string
	debug        bool

	// Effective configuration after flag overrides.
	cfg *config.Global
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:               "matchstats",
	Short:             "Football match statistics tool",
	Long:              "Import football match results and compute competition KPIs, team goal tallies and score-line tables.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.matchstats/matches.db)")
	f.StringVar(&csvPath, "csv", "", "read matches straight from a CSV file instead of the database")
	f.StringVar(&importPrefix, "import", "", "hash prefix of the stored import to read (default latest)")
	f.StringVar(&cfgFile, "config", "", "config file (default ~/.matchstats/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(averagesCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(cumulativeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration, applies flag overrides and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	f := cmd.Root().PersistentFlags()
	if f.Changed("db") {
		cfg.DBPath = dbPath
	}
	if f.Changed("csv") {
		cfg.CSVPath = csvPath
	}
	dbPath, csvPath = cfg.DBPath, cfg.CSVPath

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.WithFields(logrus.Fields{"db": dbPath, "csv": csvPath}).Debug("configuration loaded")
	return nil
}

// loadTable returns the match table from --csv when set, otherwise from the
// stored import selected by --import.
func loadTable() (*model.Table, error) {
	if csvPath != "" {
		res, err := parser.ParseFile(csvPath)
		if err != nil {
			return nil, err
		}
		for _, s := range res.Skipped {
			log.WithField("line", s.Line).Warn(s.Err)
		}
		log.WithFields(logrus.Fields{
			"source":  csvPath,
			"matches": res.Table.Len(),
			"skipped": len(res.Skipped),
		}).Info("loaded csv")
		return res.Table, nil
	}

	if !dbExists() {
		return nil, fmt.Errorf("%w: no database at %s, run 'matchstats import <file.csv>' first", model.ErrDatasetUnavailable, dbPath)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	table, imp, err := db.LoadTable(importPrefix)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"import":  storage.ShortHash(imp.SourceHash),
		"source":  imp.SourceName,
		"matches": table.Len(),
	}).Debug("loaded import")
	return table, nil
}

func dbExists() bool {
	_, err := os.Stat(dbPath)
	return !errors.Is(err, fs.ErrNotExist)
}
