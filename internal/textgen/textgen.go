package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/hirepath/hirepath/internal/models"
)

// JobPrompt carries the posting attributes a description is generated from.
type JobPrompt struct {
	Title           string
	Department      string
	Location        string
	WorkType        models.WorkType
	ExperienceLevel models.ExperienceLevel
	RequiredSkills  []string
	PreferredSkills []string
	Tone            string
}

// JobCopy is the structured posting copy a generator produces.
type JobCopy struct {
	Description      string `json:"description"`
	Responsibilities string `json:"responsibilities"`
	Requirements     string `json:"requirements"`
}

// Generator produces posting copy from structured posting attributes.
type Generator interface {
	Generate(ctx context.Context, prompt JobPrompt) (JobCopy, error)
}

// TemplateGenerator renders deterministic posting copy from the prompt
// fields. It needs no network access and serves as the fallback when no
// completion endpoint is configured or the call fails.
type TemplateGenerator struct{}

// NewTemplateGenerator constructs a TemplateGenerator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate renders the posting copy.
func (g *TemplateGenerator) Generate(_ context.Context, prompt JobPrompt) (JobCopy, error) {
	if strings.TrimSpace(prompt.Title) == "" {
		return JobCopy{}, fmt.Errorf("textgen: title is required")
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "# %s\n\n", prompt.Title)

	intro := fmt.Sprintf("We are looking for a %s to join", prompt.Title)
	if prompt.Department != "" {
		intro += fmt.Sprintf(" our %s team", prompt.Department)
	} else {
		intro += " our team"
	}
	if prompt.Location != "" {
		intro += fmt.Sprintf(" in %s", prompt.Location)
	}
	switch prompt.WorkType {
	case models.WorkTypeRemote:
		intro += " (fully remote)"
	case models.WorkTypeHybrid:
		intro += " (hybrid)"
	}
	desc.WriteString(intro + ".\n\n")

	desc.WriteString("## What we offer\n\n")
	desc.WriteString("- A structured, transparent hiring process\n")
	desc.WriteString("- Clear feedback at every interview stage\n")

	var resp strings.Builder
	fmt.Fprintf(&resp, "- Own %s work from planning through delivery\n", prompt.Title)
	if prompt.Department != "" {
		fmt.Fprintf(&resp, "- Collaborate with the wider %s team on roadmap priorities\n", prompt.Department)
	} else {
		resp.WriteString("- Collaborate across teams on roadmap priorities\n")
	}
	resp.WriteString("- Contribute to planning, estimation and review\n")

	var reqs strings.Builder
	if prompt.ExperienceLevel != "" {
		fmt.Fprintf(&reqs, "Experience level: %s\n\n", prompt.ExperienceLevel)
	}
	for _, skill := range prompt.RequiredSkills {
		fmt.Fprintf(&reqs, "- %s\n", skill)
	}
	if len(prompt.PreferredSkills) > 0 {
		reqs.WriteString("\nNice to have:\n")
		for _, skill := range prompt.PreferredSkills {
			fmt.Fprintf(&reqs, "- %s\n", skill)
		}
	}

	return JobCopy{
		Description:      desc.String(),
		Responsibilities: resp.String(),
		Requirements:     reqs.String(),
	}, nil
}
