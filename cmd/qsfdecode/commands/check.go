package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/survey"
)

// CheckCmd verifies a syntax file against its survey
var CheckCmd = &cobra.Command{
	Use:   "check <survey.qsf> <syntax.sps>",
	Short: "Check that a syntax file matches its survey",
	Long: `Regenerate syntax from the survey and compare it with an existing file.

Use the same output flags the file was generated with.

Exit codes:
  0 - syntax is up to date
  1 - syntax differs from the survey
  2 - error (unreadable files, malformed survey)

Examples:
  qsfdecode check survey.qsf survey.sps
  qsfdecode check --declarations survey.qsf survey.sps`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

var checkGen generationFlags

func init() {
	checkGen.register(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	qsfPath, spsPath := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := readSurvey(cmd.InOrStdin(), qsfPath)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(spsPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read syntax %s", spsPath)
	}

	syn, err := survey.Translate(data, checkGen.options(cmd, cfg))
	if err != nil {
		return errors.Wrapf(err, "failed to translate %s", qsfPath)
	}

	out := cmd.OutOrStdout()
	line, want, got, same := firstDifference(syn.Text(), string(existing))
	if same {
		fmt.Fprintf(out, "✓ %s is up to date\n", spsPath)
		return nil
	}

	fmt.Fprintf(out, "✗ %s is out of date (first difference at line %d)\n", spsPath, line)
	fmt.Fprintf(out, "  expected: %s\n", pterm.Green(want))
	fmt.Fprintf(out, "  found:    %s\n", pterm.Red(got))
	fmt.Fprintf(out, "\nRegenerate with: qsfdecode translate %s -o %s\n", qsfPath, spsPath)
	return &ExitError{Code: ExitCodeOutdated, Err: errors.Newf("%s is out of date", spsPath)}
}

// firstDifference compares want and got line by line, ignoring a CRLF/LF
// mismatch. It returns the 1-based line of the first difference and the two
// lines there ("<end of file>" past either end).
func firstDifference(want, got string) (int, string, string, bool) {
	w := splitLines(want)
	g := splitLines(got)
	for i := 0; i < len(w) || i < len(g); i++ {
		wl, gl := lineAt(w, i), lineAt(g, i)
		if i >= len(w) || i >= len(g) || wl != gl {
			return i + 1, wl, gl, false
		}
	}
	return 0, "", "", true
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return "<end of file>"
}
