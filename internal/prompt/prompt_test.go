package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildIsDeterministic(t *testing.T) {
	a := Build("list files", "/tmp")
	b := Build("list files", "/tmp")
	if a != b {
		t.Error("identical inputs must produce identical prompts")
	}
}

func TestBuildEmbedsInputsVerbatim(t *testing.T) {
	out := Build("find all *.go files", "/home/user/src")
	if !strings.Contains(out, "find all *.go files") {
		t.Error("prompt must contain the user request verbatim")
	}
	if !strings.Contains(out, "/home/user/src") {
		t.Error("prompt must contain the working directory verbatim")
	}
	if strings.Contains(out, "```") {
		t.Error("prompt must not contain markdown fencing")
	}
}

func TestLoadTemplateMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpl := LoadTemplate()
	if tmpl.Shell != "Linux/zsh" {
		t.Errorf("expected default shell, got %q", tmpl.Shell)
	}
	if len(tmpl.Rules) != 0 {
		t.Errorf("expected no extra rules, got %v", tmpl.Rules)
	}
}

func TestLoadTemplateOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".nlsh")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	override := "shell: macOS/fish\nrules:\n  - Prefer BSD flags\n"
	if err := os.WriteFile(filepath.Join(dir, TemplateFileName), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl := LoadTemplate()
	if tmpl.Shell != "macOS/fish" {
		t.Errorf("expected overridden shell, got %q", tmpl.Shell)
	}

	out := tmpl.Build("list files", "/tmp")
	if !strings.Contains(out, "macOS/fish") {
		t.Error("built prompt should use the overridden shell")
	}
	if !strings.Contains(out, "- Prefer BSD flags") {
		t.Error("built prompt should append the extra rule")
	}
	// Built-in rules survive the override.
	if !strings.Contains(out, "- Output ONLY the command, nothing else") {
		t.Error("built prompt should keep the base rules")
	}
}

func TestLoadTemplateMalformedFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".nlsh")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TemplateFileName), []byte("{not yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl := LoadTemplate()
	if tmpl.Shell != "Linux/zsh" {
		t.Errorf("malformed template should fall back to default, got %q", tmpl.Shell)
	}
}
