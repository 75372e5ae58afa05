package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashingpumpkin/markbar/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the saved session",
	Long: `Display the markbar session saved in the working directory.

Shows the session ID, progress, split marks and when it was saved.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st, err := state.Load(workingDir)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if st == nil {
		_, _ = fmt.Fprintln(out, "No markbar session in this directory")
		_, _ = fmt.Fprintln(out, "")
		_, _ = fmt.Fprintln(out, "Start with: markbar")
		return nil
	}

	_, _ = fmt.Fprintln(out, "Markbar Status")
	_, _ = fmt.Fprintln(out, "==============")
	_, _ = fmt.Fprintf(out, "Session:    %s\n", st.SessionID)
	_, _ = fmt.Fprintf(out, "Track:      %s\n", st.Summary())
	_, _ = fmt.Fprintf(out, "Min mark:   %d\n", st.MinMask)
	_, _ = fmt.Fprintf(out, "Saved:      %s\n", st.SavedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Resume with: markbar --resume")
	return nil
}
