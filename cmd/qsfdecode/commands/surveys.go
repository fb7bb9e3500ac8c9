package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qsfdecode/display"
)

// SurveysCmd lists the surveys visible to the API token
var SurveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "List Qualtrics surveys",
	Long: `List the surveys visible to the configured API token.

Examples:
  qsfdecode surveys
  qsfdecode surveys --json | jq -r '.[].id'`,
	Args: cobra.NoArgs,
	RunE: runSurveys,
}

func init() {
	SurveysCmd.Flags().BoolP("json", "j", false, "Output the listing as JSON")
}

func runSurveys(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newQualtricsClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	surveys, err := client.Surveys(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, surveys)
	}

	if len(surveys) == 0 {
		pterm.Info.WithWriter(cmd.ErrOrStderr()).Println("No surveys are visible to this API token")
		return nil
	}

	table := pterm.TableData{{"ID", "Name", "Active"}}
	for _, s := range surveys {
		active := ""
		if s.IsActive {
			active = "✓"
		}
		table = append(table, []string{s.ID, s.Name, active})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(table).Render()
}
