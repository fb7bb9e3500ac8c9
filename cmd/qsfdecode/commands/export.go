package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qsfdecode/am"
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/logger"
	"github.com/teranos/qsfdecode/qualtrics"
	"github.com/teranos/qsfdecode/survey"
)

// ExportCmd fetches a survey definition from Qualtrics and translates it
var ExportCmd = &cobra.Command{
	Use:   "export [survey-id]",
	Short: "Fetch a survey from Qualtrics and generate its syntax",
	Long: `Export a survey definition from Qualtrics and generate its SPSS syntax.

Without a survey ID, the surveys visible to the API token are listed and one
is picked interactively.

Credentials come from am.toml ([qualtrics] api_token, data_center) or the
environment (QSF_QUALTRICS_API_TOKEN / Q_API_TOKEN, QSF_QUALTRICS_DATA_CENTER /
Q_DATA_CENTER). A .env file in the working directory is read too.

Examples:
  qsfdecode export SV_0ABCdefGHIjklMNO -o survey.sps
  qsfdecode export SV_0ABCdefGHIjklMNO --save-qsf survey.qsf --qsf-only
  qsfdecode export`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportGen     generationFlags
	exportOutput  string
	exportSaveQSF string
	exportQSFOnly bool
)

func init() {
	exportGen.register(ExportCmd)
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write syntax to this file instead of stdout")
	ExportCmd.Flags().StringVar(&exportSaveQSF, "save-qsf", "", "Also save the exported survey definition to this file")
	ExportCmd.Flags().BoolVar(&exportQSFOnly, "qsf-only", false, "Only save the survey definition; requires --save-qsf")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportQSFOnly && exportSaveQSF == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, "--qsf-only needs somewhere to write the survey"),
			"Add --save-qsf <file>")
	}

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
	stderr := cmd.ErrOrStderr()

	surveyID := ""
	if len(args) == 1 {
		surveyID = args[0]
	} else {
		if surveyID, err = pickSurvey(ctx, client); err != nil {
			return err
		}
	}

	spinner, _ := pterm.DefaultSpinner.WithWriter(stderr).Start(fmt.Sprintf("Exporting %s...", surveyID))
	data, err := client.SurveyDefinition(ctx, surveyID, qualtrics.FormatQSF)
	if err != nil {
		spinner.Fail(fmt.Sprintf("Export of %s failed", surveyID))
		return err
	}
	spinner.Success(fmt.Sprintf("Exported %s (%d bytes)", surveyID, len(data)))

	if exportSaveQSF != "" {
		if err := os.WriteFile(exportSaveQSF, data, am.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to save survey to %s", exportSaveQSF)
		}
		pterm.Info.WithWriter(stderr).Printfln("Saved survey definition to %s", exportSaveQSF)
	}
	if exportQSFOnly {
		return nil
	}

	syn, err := survey.Translate(data, exportGen.options(cmd, cfg))
	if err != nil {
		return errors.Wrapf(err, "failed to translate survey %s", surveyID)
	}
	if err := writeSyntax(cmd.OutOrStdout(), syn, exportOutput); err != nil {
		return err
	}
	reportSummary(stderr, syn, exportOutput)
	return nil
}

func newQualtricsClient(cfg *am.Config) (*qualtrics.Client, error) {
	return qualtrics.NewClient(cfg.Qualtrics, qualtrics.WithLogger(logger.ComponentLogger("qualtrics")))
}

// pickSurvey lists the surveys and lets the user choose one
func pickSurvey(ctx context.Context, client *qualtrics.Client) (string, error) {
	surveys, err := client.Surveys(ctx)
	if err != nil {
		return "", err
	}
	if len(surveys) == 0 {
		return "", errors.Wrap(errors.ErrNotFound, "no surveys are visible to this API token")
	}

	labels, byLabel := surveyChoices(surveys)
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithMaxHeight(15).
		Show("Select a survey to export")
	if err != nil {
		return "", errors.Wrap(err, "survey selection cancelled")
	}
	return byLabel[choice], nil
}

// surveyChoices builds unique picker labels, mapped back to survey IDs
func surveyChoices(surveys []qualtrics.Survey) ([]string, map[string]string) {
	labels := make([]string, 0, len(surveys))
	byLabel := make(map[string]string, len(surveys))
	for _, s := range surveys {
		label := s.ID
		if s.Name != "" {
			label = fmt.Sprintf("%s (%s)", s.Name, s.ID)
		}
		if !s.IsActive {
			label += " [inactive]"
		}
		labels = append(labels, label)
		byLabel[label] = s.ID
	}
	return labels, byLabel
}
