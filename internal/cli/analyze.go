package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cropwatch/common/model"
	"cropwatch/internal/business"
	"cropwatch/internal/business/agent"
)

// AnalyzeOutput analyze 命令输出
type AnalyzeOutput struct {
	PlotID  string               `json:"plot_id"`
	Alerts  []model.AnomalyAlert `json:"alerts"`
	Summary model.AlertsSummary  `json:"summary"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		file   string
		plotID string
	)
	cmd := &cobra.Command{
		Use:   "analyze --file batch.json --plot 1",
		Short: "Classify a reading batch offline and print alerts with a summary",
		Long: `Runs the rule engine locally without the API server or queues.

The batch file is a JSON object of sensor readings, for example:

  {"temperature": 41.5, "humidity": 55, "soil_moisture": 12}

Threshold overrides are read from the rules section of --config when the
flag is given; otherwise the reference thresholds are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read batch file: %w", err)
			}

			ag := agent.New(nil)
			if cmd.Flags().Changed("config") {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				if ag, err = business.NewAgentFromConfig(cfg.Rules); err != nil {
					return err
				}
			}

			out, err := AnalyzeBatch(ag, raw, plotID, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "reading batch JSON file")
	cmd.Flags().StringVar(&plotID, "plot", "1", "plot id used in alerts")
	return cmd
}

// AnalyzeBatch 解析读数并分级
func AnalyzeBatch(ag *agent.Agent, raw []byte, plotID string, now time.Time) (*AnalyzeOutput, error) {
	var batch model.ReadingBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	alerts := ag.Analyze(batch, plotID, now.UTC().Format(time.RFC3339))
	return &AnalyzeOutput{
		PlotID:  plotID,
		Alerts:  alerts,
		Summary: agent.Summarize(alerts),
	}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
