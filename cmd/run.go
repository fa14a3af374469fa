package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/tui"
)

// runInterview opens the store, builds dependencies, and launches the
// interactive interview TUI.
func runInterview(cmd *cobra.Command) error {
	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.pipeline == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured: answers will be stored without cleaning or classification.")
	}

	return tui.Run(e.svc, e.pipeline, resolveUserID(cmd))
}
