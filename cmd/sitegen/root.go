package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitegen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegen",
		Short: "Generate the static documents of a StarterKit site",
		Long: `sitegen renders the documents the server would generate for a site profile
(manifest.webmanifest, robots.txt and sitemap.xml) into a directory, so they can be
served by a CDN or checked into a static deployment.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
