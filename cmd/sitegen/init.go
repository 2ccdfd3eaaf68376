package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

const profileFileName = "site-profile.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default site profile to a file",
		Long: `init writes the built-in site profile so it can be edited and passed to the
server with --site_profile.

Examples:
  # Create site-profile.yaml in the current directory
  sitegen init

  # Write to a specific path, replacing any existing file
  sitegen init -o config/profile.yaml -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", profileFileName, "Output file path for the profile")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(outputPath, bytes.NewReader(siteconfig.DefaultProfileYAML())); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", outputPath)
	return nil
}
