package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/metric-atlas/pkg/models/api"
	analysissvc "github.com/de-tools/metric-atlas/pkg/services/analysis"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	requestPath string
	metricName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "cli",
		Short: "Analyze a metric from a dashboard snapshot file",
		RunE:  runAnalyze,
	}

	rootCmd.Flags().StringVarP(&requestPath, "file", "f", "",
		"Path to a JSON file with the analysis request")
	rootCmd.Flags().StringVarP(&metricName, "metric", "m", "",
		"Metric name, overrides the one in the request file")
	_ = rootCmd.MarkFlagRequired("file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runAnalyze runs the pipeline offline: no database, drill-downs and related
// pages stay empty, the report covers the snapshot alone.
func runAnalyze(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	var req api.AnalyzeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse request file: %w", err)
	}
	if metricName != "" {
		req.Metric.Name = metricName
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	analyzer := analysissvc.New(nil, collector.Capabilities{})
	report, err := analyzer.AnalyzeMetric(ctx, req.Metric, req.Filters, req.Period, req.Dashboard)
	if err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}
