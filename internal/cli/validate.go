package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fHachenberg/groupq/internal/ir"
	"github.com/fHachenberg/groupq/internal/queryir"
)

// GroupIssues lists the structural issues of one named query.
type GroupIssues struct {
	Group  string   `json:"group"`
	Issues []string `json:"issues"`
}

// ValidationReport holds the validation results for a definitions
// directory.
type ValidationReport struct {
	Valid  bool          `json:"valid"`
	Groups int           `json:"groups"`
	Errors []GroupIssues `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <defs-dir>",
		Short: "Validate definitions without evaluating them",
		Long: `Load identifier and group definitions and structurally validate every
registered query: nil nodes, empty group labels, empty intersections.

Resolution failures (missing identifiers, unknown groups) are evaluation-
time concerns and are not reported here; use eval for those.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := LoadDefs(defsDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			code = loadErr.Code
		}
		messages := make([]string, len(loadErrors))
		for i, err := range loadErrors {
			messages[i] = err.Error()
		}
		_ = formatter.Error(code, messages[0], messages)
		return WrapExitError(ExitCommandError, "failed to load definitions", loadErrors[0])
	}

	var labels []string
	for label := range result.Groups {
		labels = append(labels, string(label))
	}
	sort.Strings(labels)

	report := ValidationReport{Valid: true, Groups: len(labels)}
	for _, label := range labels {
		vr := queryir.Validate(result.Groups[ir.GroupLabel(label)])
		if !vr.Valid {
			report.Valid = false
			report.Errors = append(report.Errors, GroupIssues{Group: label, Issues: vr.Issues})
		}
	}

	if !report.Valid {
		if opts.Format == "json" {
			_ = formatter.Success(report)
		} else {
			var text strings.Builder
			for _, ge := range report.Errors {
				for _, issue := range ge.Issues {
					fmt.Fprintf(&text, "✗ %s: %s\n", ge.Group, issue)
				}
			}
			fmt.Fprint(formatter.Writer, text.String())
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d group(s) invalid", len(report.Errors)))
	}

	text := fmt.Sprintf("✓ All queries valid (%d groups)\n", report.Groups)
	return formatter.SuccessText(text, report)
}
