package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ownerchain/ownerchain/internal/build"
)

// NewVersionCommand returns the command to get the ownerchain version.
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Return the ownerchain version",
		Long:  "Return the ownerchain version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}

	return cmd
}

// print out the built version
func version(_ *cobra.Command, _ []string) error {
	log.Printf("ownerchain version %s date %s commit id %s", build.Version, build.Date, build.Commit)
	return nil
}
