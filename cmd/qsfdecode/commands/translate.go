package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qsfdecode/am"
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/internal/watch"
	"github.com/teranos/qsfdecode/logger"
	"github.com/teranos/qsfdecode/survey"
)

// TranslateCmd generates syntax from a survey file
var TranslateCmd = &cobra.Command{
	Use:   "translate <survey.qsf|->",
	Short: "Generate SPSS syntax from a QSF file",
	Long: `Generate SPSS syntax for every question reachable from the survey flow.

The survey is read from the named file, or from stdin when the argument is "-".
Syntax is written to stdout unless --output names a file; the summary and any
warnings go to stderr.

Flags override the [output] section of am.toml; --sub adds to the
[[spss.substitutions]] list for this run.

With --watch the syntax is regenerated whenever the survey file or a
configuration file changes, until interrupted.

Examples:
  qsfdecode translate survey.qsf
  qsfdecode translate survey.qsf -o survey.sps --declarations
  qsfdecode translate - --question-text --sub "Q.Rating=RT" < survey.qsf
  qsfdecode translate survey.qsf -o survey.sps --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

var (
	translateGen    generationFlags
	translateOutput string
	translateWatch  bool
)

func init() {
	translateGen.register(TranslateCmd)
	TranslateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Write syntax to this file instead of stdout")
	TranslateCmd.Flags().BoolVarP(&translateWatch, "watch", "w", false, "Regenerate when the survey or configuration changes")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if translateWatch && (args[0] == "-" || translateOutput == "" || translateOutput == "-") {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, "--watch needs a survey file and an output file"),
			"Use: qsfdecode translate survey.qsf -o survey.sps --watch")
	}

	if err := translateOnce(cmd, args[0]); err != nil {
		return err
	}
	if !translateWatch {
		return nil
	}
	return watchAndTranslate(cmd, args[0])
}

func translateOnce(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := readSurvey(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	syn, err := survey.Translate(data, translateGen.options(cmd, cfg))
	if err != nil {
		return errors.Wrapf(err, "failed to translate %s", path)
	}

	if err := writeSyntax(cmd.OutOrStdout(), syn, translateOutput); err != nil {
		return err
	}
	reportSummary(cmd.ErrOrStderr(), syn, translateOutput)
	return nil
}

// watchAndTranslate regenerates on every change to the survey or a config
// file until the command's context ends. Failures are reported and the
// previous output is left in place.
func watchAndTranslate(cmd *cobra.Command, path string) error {
	paths := []string{path}
	for _, p := range []string{am.UserConfigPath(), filepath.Join(".", am.ConfigFileName)} {
		if p != "" {
			if _, err := os.Stat(filepath.Dir(p)); err == nil {
				paths = append(paths, p)
			}
		}
	}

	w, err := watch.New(paths, watch.DefaultDebounce, logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()
	pterm.Info.WithWriter(stderr).Printfln("Watching %s (Ctrl+C to stop)", path)

	return w.Run(ctx, func() {
		am.Reset()
		if err := translateOnce(cmd, path); err != nil {
			pterm.Warning.WithWriter(stderr).Printfln("%v", err)
		}
	})
}

// generationFlags are the output switches shared by translate, check and export
type generationFlags struct {
	declarations  bool
	questionText  bool
	answerText    bool
	substitutions map[string]string
}

func (g *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&g.declarations, "declarations", false, "Emit NUMERIC/STRING declarations")
	cmd.Flags().BoolVar(&g.questionText, "question-text", false, "Prefix variable labels with the question description")
	cmd.Flags().BoolVar(&g.answerText, "answer-text", false, "Suffix multi-answer variable labels with the answer text")
	cmd.Flags().StringToStringVar(&g.substitutions, "sub", nil, "Variable name substitution FROM=TO (repeatable)")
}

// options merges configuration with the flags the user actually set
func (g *generationFlags) options(cmd *cobra.Command, cfg *am.Config) survey.Options {
	opts := survey.Options{
		IncludeDeclarations: cfg.Output.IncludeDeclarations,
		IncludeQuestionText: cfg.Output.IncludeQuestionText,
		IncludeAnswerText:   cfg.Output.IncludeAnswerText,
		Substitutions:       cfg.SPSS.SubstitutionMap(),
		Logger:              logger.ComponentLogger("survey"),
	}
	flags := cmd.Flags()
	if flags.Changed("declarations") {
		opts.IncludeDeclarations = g.declarations
	}
	if flags.Changed("question-text") {
		opts.IncludeQuestionText = g.questionText
	}
	if flags.Changed("answer-text") {
		opts.IncludeAnswerText = g.answerText
	}
	for from, to := range g.substitutions {
		opts.Substitutions[from] = to
	}
	return opts
}

func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// readSurvey reads path, or stdin for "-"
func readSurvey(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read survey from stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read survey %s", path)
	}
	return data, nil
}

// writeSyntax writes to path, or to stdout when path is empty or "-"
func writeSyntax(stdout io.Writer, syn *survey.Syntax, path string) error {
	if path == "" || path == "-" {
		_, err := syn.WriteTo(stdout)
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, am.DefaultFilePermissions)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := syn.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// reportSummary prints what was generated, failed questions and name
// collisions
func reportSummary(w io.Writer, syn *survey.Syntax, dest string) {
	target := ""
	if dest != "" && dest != "-" {
		target = " to " + dest
	}
	pterm.Success.WithWriter(w).Printfln("Wrote %d questions (%d variables)%s",
		len(syn.Blocks), len(syn.Variables()), target)

	if n := len(syn.Skipped); n > 0 {
		pterm.Info.WithWriter(w).Printfln("Skipped %d questions of unsupported types (-vv lists them)", n)
	}
	for _, f := range syn.Failed {
		pterm.Warning.WithWriter(w).Printfln("%s (%s) left out: %v", f.ExportTag, f.QuestionID, f.Err)
	}
	for _, c := range syn.Collisions() {
		pterm.Warning.WithWriter(w).Printfln("Variable %s is generated by %s",
			c.Name, strings.Join(c.QuestionIDs, ", "))
	}
}
