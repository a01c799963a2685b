// Package cmd provides the CLI commands for the Quill application.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - a collaborative scientific manuscript drafting assistant",
	Long: `Quill drafts scientific manuscripts collaboratively: it interprets
your request into per-section instructions, drafts and assembles the
sections, and iterates with an internal reviewer until the draft holds up.

Markers switch workflows inside a session:
  @citations         - add literature citations to the current draft
  @check-retractions - revise the draft against known retraction pitfalls
  @enhance           - both of the above in one pass
  @review            - run the critique/refine loop on the current draft
  @repo              - draft a paper about a software repository`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
