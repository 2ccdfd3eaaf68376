package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/pwa"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

// document is one generated file.
type document struct {
	name string
	body []byte
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write manifest.webmanifest, robots.txt and sitemap.xml",
		Long: `export renders the generated documents for a site profile into a directory.
Each file is replaced atomically, so a web server reading the directory never
sees a partial document.

Public values such as the canonical site URL are read from STARTERKIT_PUBLIC_*.`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().String("out", "", "Output directory (required)")
	cmd.Flags().String("profile", "", "Site profile YAML (default: built-in profile)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	profilePath, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}

	p, err := siteconfig.Load(profilePath)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	env, err := siteconfig.LoadPublicEnv()
	if err != nil {
		return err
	}

	docs, err := renderDocuments(p, env, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, d := range docs {
		path := filepath.Join(outDir, d.name)
		if err := atomic.WriteFile(path, bytes.NewReader(d.body)); err != nil {
			return fmt.Errorf("write %s: %w", d.name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", path, humanize.Bytes(uint64(len(d.body))))
	}
	return nil
}

func renderDocuments(p siteconfig.Profile, env siteconfig.PublicEnv, now time.Time) ([]document, error) {
	manifest, err := pwa.Marshal(pwa.Build(p, env))
	if err != nil {
		return nil, err
	}
	sitemap, err := seo.RenderSitemap(p, now)
	if err != nil {
		return nil, err
	}
	return []document{
		{name: "manifest.webmanifest", body: manifest},
		{name: "robots.txt", body: []byte(seo.BuildRobots(p).String())},
		{name: "sitemap.xml", body: sitemap},
	}, nil
}
