package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fHachenberg/groupq/internal/ir"
	"github.com/fHachenberg/groupq/internal/queryir"
)

// GroupHash is the content-addressed identity of one named query.
type GroupHash struct {
	Group string `json:"group"`
	Hash  string `json:"hash"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <defs-dir>",
		Short: "Print content hashes of all registered queries",
		Long: `Load definitions and print the canonical content hash of every
registered query. Hashes are stable across file layout, load order, and
Unicode form of group labels; structurally equal queries hash equal.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runHash(opts *RootOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, err := loadForCommand(defsDir, formatter)
	if err != nil {
		return err
	}

	var labels []string
	for label := range result.Groups {
		labels = append(labels, string(label))
	}
	sort.Strings(labels)

	var hashes []GroupHash
	var text strings.Builder
	for _, label := range labels {
		h, hashErr := queryir.Hash(result.Groups[ir.GroupLabel(label)])
		if hashErr != nil {
			message := fmt.Sprintf("hashing group %q: %v", label, hashErr)
			_ = formatter.Error(ErrCodeGeneric, message, nil)
			return WrapExitError(ExitFailure, message, hashErr)
		}
		hashes = append(hashes, GroupHash{Group: label, Hash: h})
		fmt.Fprintf(&text, "%s  %s\n", h, label)
	}

	return formatter.SuccessText(text.String(), hashes)
}
