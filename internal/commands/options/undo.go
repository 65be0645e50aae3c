package options

import (
	"github.com/spf13/cobra"
)

// UndoOptions
type UndoOptions struct {
	NoUndo bool
}

func AddUndoArgs(cmd *cobra.Command, o *UndoOptions) {
	cmd.Flags().BoolVarP(&o.NoUndo, "yes", "y", false,
		"Delete without offering an undo window.")
}
