package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qsfdecode/cmd/qsfdecode/commands"
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qsfdecode",
	Short: "Generate SPSS syntax from Qualtrics survey definitions",
	Long: `qsfdecode - SPSS syntax from Qualtrics survey definitions.

Reads a Qualtrics survey file (QSF) and writes the SPSS syntax that declares
and labels the survey's response variables: variable labels, value labels and
optionally NUMERIC/STRING declarations.

Available commands:
  translate - Generate syntax from a QSF file or stdin
  check     - Verify an existing syntax file is up to date
  export    - Fetch a survey from Qualtrics and generate its syntax
  surveys   - List the surveys visible to the API token
  am        - Manage qsfdecode configuration

Examples:
  qsfdecode translate survey.qsf -o survey.sps
  qsfdecode translate --declarations --answer-text - < survey.qsf
  qsfdecode check survey.qsf survey.sps
  qsfdecode export SV_0ABCdefGHIjklMNO -o survey.sps
  qsfdecode am show --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs to stderr as JSON")

	rootCmd.AddCommand(commands.TranslateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.SurveysCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(commands.ExitCode(err))
	}
}
