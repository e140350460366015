package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a competition dashboard as JSON or YAML",
	Long: `Compute the full dashboard for one competition and stage and write it as a
machine-readable document. Each export carries a fresh report_id and a UTC
generated_at timestamp.

Example:
  matchstats export --competition "Premier League" --stage All --format yaml --out pl.yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addCriteriaFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().IntVar(&dashboardTop, "top", 0, "number of top scoring teams (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	criteria, err := resolveCriteria(table)
	if err != nil {
		return err
	}
	rep, err := aggregator.Dashboard(table, criteria, dashboardOptions())
	if err != nil {
		return emptyResult(cmd, err)
	}

	data, err := encodeReport(rep, exportFormat)
	if err != nil {
		return err
	}
	if exportOut == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	log.WithFields(logrus.Fields{"report": rep.ReportID, "out": exportOut}).Info("wrote report")
	return nil
}

func encodeReport(rep *model.DashboardReport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(rep)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
