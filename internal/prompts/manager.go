package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into the binary
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is what handlers depend on; tests substitute it.
type PromptProvider interface {
	BuildPrompt(name string, data map[string]string) (string, error)
}

type PromptManager struct {
	prompts map[string]string // template name -> prompt text with placeholders
}

// loaded prompt template
type PromptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]string),
	}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

// BuildPrompt fills the named template's {{.Key}} placeholders from data.
// Simple string replacement instead of template execution keeps prompt text
// exactly as authored.
func (pm *PromptManager) BuildPrompt(name string, data map[string]string) (string, error) {
	tmpl, exists := pm.prompts[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	result := tmpl
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	if idx := strings.Index(result, "{{."); idx >= 0 {
		end := strings.Index(result[idx:], "}}")
		if end < 0 {
			end = len(result) - idx
		}
		return "", fmt.Errorf("template %s has unfilled placeholder %s", name, result[idx:idx+end+2])
	}
	return result, nil
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(promptTemplate.Prompt) == "" {
			return fmt.Errorf("template file %s has an empty prompt", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[name] = strings.TrimSpace(promptTemplate.Prompt)
	}

	return nil
}
