package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nlshell/nlsh/internal/config"
)

const TemplateFileName = "prompt.yaml"

// Template controls the instruction text sent to a provider. The zero-ish
// default targets Linux/zsh; users may override the shell name and append
// rules through ~/.nlsh/prompt.yaml.
type Template struct {
	Shell string   `yaml:"shell"`
	Rules []string `yaml:"rules"`
}

// DefaultTemplate returns the built-in instruction template
func DefaultTemplate() Template {
	return Template{Shell: "Linux/zsh"}
}

// LoadTemplate reads the optional template override file. A missing or
// malformed file falls back to the default template; a broken override must
// never block the tool.
func LoadTemplate() Template {
	tmpl := DefaultTemplate()

	dir, err := config.GetConfigDir()
	if err != nil {
		return tmpl
	}
	data, err := os.ReadFile(filepath.Join(dir, TemplateFileName))
	if err != nil {
		return tmpl
	}

	var override Template
	if err := yaml.Unmarshal(data, &override); err != nil {
		return DefaultTemplate()
	}
	if override.Shell != "" {
		tmpl.Shell = override.Shell
	}
	tmpl.Rules = append(tmpl.Rules, override.Rules...)
	return tmpl
}

// Build renders the instruction text for one invocation. Pure: identical
// inputs always produce identical output.
func (t Template) Build(userInput, cwd string) string {
	var rules strings.Builder
	rules.WriteString(`- Output ONLY the command, nothing else
- No explanations, no markdown, no backticks
- If unclear, make a reasonable assumption
- Prefer simple, common commands`)
	for _, rule := range t.Rules {
		rules.WriteString("\n- ")
		rules.WriteString(rule)
	}

	return fmt.Sprintf(`You are a shell command translator. Convert the user's request into a shell command for %s.
Current directory: %s

Rules:
%s

User request: %s`, t.Shell, cwd, rules.String(), userInput)
}

// Build renders the instruction text with the default template
func Build(userInput, cwd string) string {
	return DefaultTemplate().Build(userInput, cwd)
}
