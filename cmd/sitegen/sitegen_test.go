package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"export", "init", "version"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestExport_WritesDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")

	out, err := run(t, "export", "--out", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	tests := []struct {
		file string
		want string
	}{
		{"manifest.webmanifest", `"short_name": "StarterKit"`},
		{"robots.txt", "Sitemap: http://localhost:3000/sitemap.xml"},
		{"sitemap.xml", "<loc>http://localhost:3000/about-aifa</loc>"},
	}
	for _, tc := range tests {
		data, err := os.ReadFile(filepath.Join(dir, tc.file))
		if err != nil {
			t.Errorf("%s: %v", tc.file, err)
			continue
		}
		if !strings.Contains(string(data), tc.want) {
			t.Errorf("%s missing %q", tc.file, tc.want)
		}
		if !strings.Contains(out, tc.file) {
			t.Errorf("output does not report %s: %q", tc.file, out)
		}
	}
}

func TestExport_UsesProfile(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(profile, []byte("short_name: \"Kit\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "export", "--out", dir, "--profile", profile); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "manifest.webmanifest"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"short_name": "Kit"`) {
		t.Errorf("profile override not applied: %s", data)
	}
}

func TestExport_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("url: \"not a url\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing out", []string{"export"}},
		{"missing profile", []string{"export", "--out", dir, "--profile", filepath.Join(dir, "nope.yaml")}},
		{"invalid profile", []string{"export", "--out", dir, "--profile", invalid}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, tc.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "profile.yaml")

	if _, err := run(t, "init", "-o", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `short_name: "StarterKit"`) {
		t.Errorf("unexpected profile content: %s", data)
	}

	_, err = run(t, "init", "-o", path)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init: got %v, want already exists", err)
	}

	if err := os.WriteFile(path, []byte("edited"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "init", "-o", path, "-f"); err != nil {
		t.Fatalf("init -f: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) == "edited" {
		t.Error("init -f did not overwrite the file")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "sitegen version ") {
		t.Errorf("output: %q", out)
	}
}
