package app

import (
	"github.com/hirepath/hirepath/internal/textgen"
)

// BuildGenerator converts TextgenConfig into a description generator. A
// disabled or unconfigured endpoint yields the template renderer.
func (c TextgenConfig) BuildGenerator() (textgen.Generator, error) {
	fallback := textgen.NewTemplateGenerator()
	if !c.Enabled || c.BaseURL == "" {
		return fallback, nil
	}

	return textgen.NewCompletionGenerator(textgen.CompletionConfig{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Model:   c.Model,
		Timeout: c.Timeout,
	}, fallback)
}
