// Package pwa builds the web app manifest served at /manifest.webmanifest.
package pwa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

// ContentType is the media type of the manifest document.
const ContentType = "application/manifest+json"

type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

type Screenshot struct {
	Src        string `json:"src"`
	Sizes      string `json:"sizes"`
	Type       string `json:"type"`
	FormFactor string `json:"form_factor"`
}

type Shortcut struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Icons       []Icon `json:"icons,omitempty"`
}

// Manifest is the W3C web app manifest.
type Manifest struct {
	Name                      string       `json:"name"`
	ShortName                 string       `json:"short_name"`
	Description               string       `json:"description,omitempty"`
	StartURL                  string       `json:"start_url"`
	Scope                     string       `json:"scope"`
	Display                   string       `json:"display"`
	Orientation               string       `json:"orientation,omitempty"`
	BackgroundColor           string       `json:"background_color"`
	ThemeColor                string       `json:"theme_color"`
	Icons                     []Icon       `json:"icons"`
	Categories                []string     `json:"categories,omitempty"`
	Screenshots               []Screenshot `json:"screenshots,omitempty"`
	PreferRelatedApplications bool         `json:"prefer_related_applications"`
	Shortcuts                 []Shortcut   `json:"shortcuts,omitempty"`
}

// Build assembles the manifest. Icons that are not configured are left out;
// screenshots come from the public environment and are omitted when unset.
func Build(p siteconfig.Profile, env siteconfig.PublicEnv) Manifest {
	var icons []Icon
	add := func(src, sizes, purpose string) {
		if src != "" {
			icons = append(icons, Icon{Src: src, Sizes: sizes, Type: "image/png", Purpose: purpose})
		}
	}
	add(p.Icons.Icon32, "32x32", "any")
	add(p.Icons.Icon48, "48x48", "any")
	add(p.Icons.Icon192, "192x192", "maskable")
	add(p.Icons.Icon512, "512x512", "maskable")
	add(p.Icons.AppleTouch, "180x180", "any")

	var shots []Screenshot
	if s := strings.TrimSpace(env.ScreenshotMobile); s != "" {
		shots = append(shots, Screenshot{Src: s, Sizes: "540x720", Type: "image/png", FormFactor: "narrow"})
	}
	if s := strings.TrimSpace(env.ScreenshotDesktop); s != "" {
		shots = append(shots, Screenshot{Src: s, Sizes: "1280x720", Type: "image/png", FormFactor: "wide"})
	}

	var shortcuts []Shortcut
	for _, sc := range p.PWA.Shortcuts {
		s := Shortcut{Name: sc.Name, ShortName: sc.ShortName, Description: sc.Description, URL: sc.URL}
		if p.Icons.Icon192 != "" {
			s.Icons = []Icon{{Src: p.Icons.Icon192, Sizes: "192x192", Type: "image/png"}}
		}
		shortcuts = append(shortcuts, s)
	}

	return Manifest{
		Name:            strings.TrimSpace(p.Name),
		ShortName:       strings.TrimSpace(p.ShortName),
		Description:     p.Description,
		StartURL:        p.PWA.StartURL,
		Scope:           p.PWA.Scope,
		Display:         p.PWA.Display,
		Orientation:     p.PWA.Orientation,
		BackgroundColor: p.PWA.BackgroundColor,
		ThemeColor:      p.PWA.ThemeColor,
		Icons:           icons,
		Categories:      p.PWA.Categories,
		Screenshots:     shots,
		Shortcuts:       shortcuts,
	}
}

// Marshal renders the manifest as indented JSON.
func Marshal(m Manifest) ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return b, nil
}
