package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fHachenberg/groupq/internal/engine"
	"github.com/fHachenberg/groupq/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Query string
	All   bool
}

// GroupResult is the evaluation result of one named group.
type GroupResult struct {
	Group   string     `json:"group"`
	Indices []ir.Index `json:"indices"`
	Size    int        `json:"size"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <defs-dir>",
		Short: "Evaluate named queries against the loaded databases",
		Long: `Load identifier and group definitions from a directory and evaluate
named queries. Group references resolve late-bound against the loaded
group database; results are printed as sorted index sets.

Exit codes:
  0 - Evaluation succeeded
  1 - Evaluation failure (unknown group, missing identifier, invalid range)
  2 - Command error (bad paths, malformed definitions)

Examples:
  groupq eval ./examples --query otto
  groupq eval ./examples --all
  groupq eval ./examples --all --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "group label to evaluate")
	cmd.Flags().BoolVar(&opts.All, "all", false, "evaluate every registered group")

	return cmd
}

func runEval(opts *EvalOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !opts.All && opts.Query == "" {
		message := "either --query or --all is required"
		_ = formatter.Error(ErrCodeGeneric, message, nil)
		return NewExitError(ExitCommandError, message)
	}

	result, err := loadForCommand(defsDir, formatter)
	if err != nil {
		return err
	}
	formatter.VerboseLog("loaded %d identifiers, %d groups from %d files",
		len(result.Identifiers), len(result.Groups), result.FileCount)

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	eval := engine.New(
		engine.Context{Identifiers: result.Identifiers, Groups: result.Groups},
		engine.WithLogger(logger),
	)

	var labels []string
	if opts.All {
		for label := range result.Groups {
			labels = append(labels, string(label))
		}
		sort.Strings(labels)
	} else {
		labels = []string{opts.Query}
	}

	var results []GroupResult
	for _, label := range labels {
		q, ok := result.Groups[ir.GroupLabel(label)]
		if !ok {
			message := fmt.Sprintf("group %q not registered", label)
			_ = formatter.Error(string(engine.ErrCodeUnknownGroup), message, nil)
			return NewExitError(ExitFailure, message)
		}
		set, evalErr := eval.Evaluate(q)
		if evalErr != nil {
			code := string(engine.CodeOf(evalErr))
			if code == "" {
				code = ErrCodeGeneric
			}
			_ = formatter.Error(code, evalErr.Error(), nil)
			return WrapExitError(ExitFailure, fmt.Sprintf("evaluating group %q", label), evalErr)
		}
		sorted := set.Sorted()
		results = append(results, GroupResult{Group: label, Indices: sorted, Size: len(sorted)})
	}

	var text strings.Builder
	for _, res := range results {
		fmt.Fprintf(&text, "%s: %v (%d indices)\n", res.Group, res.Indices, res.Size)
	}
	return formatter.SuccessText(text.String(), results)
}

// loadForCommand loads definitions fail-fast and reports the first error
// through the formatter, returning a command-error ExitError.
func loadForCommand(defsDir string, formatter *OutputFormatter) (*LoadResult, error) {
	result, loadErrors := LoadDefs(defsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, loadErrors[0].Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load definitions", loadErrors[0])
	}
	return result, nil
}
