package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirepath/hirepath/pkg/logger"
)

// CompletionConfig configures the chat-completions backed generator.
type CompletionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CompletionGenerator asks an OpenAI-compatible chat-completions endpoint
// for posting copy and falls back to the template renderer on any failure.
// Generation must never block posting a job.
type CompletionGenerator struct {
	cfg      CompletionConfig
	client   *http.Client
	fallback Generator
}

// NewCompletionGenerator constructs a CompletionGenerator instance.
func NewCompletionGenerator(cfg CompletionConfig, fallback Generator) (*CompletionGenerator, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("textgen: base url is required")
	}
	if fallback == nil {
		return nil, errors.New("textgen: fallback generator is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CompletionGenerator{
		cfg:      cfg,
		client:   &http.Client{Timeout: timeout},
		fallback: fallback,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate calls the completion endpoint, falling back to the template
// renderer when the call fails for any reason.
func (g *CompletionGenerator) Generate(ctx context.Context, prompt JobPrompt) (JobCopy, error) {
	content, err := g.complete(ctx, prompt)
	if err != nil {
		logger.WithModule("textgen").Warn("completion failed, using template fallback",
			zap.String("title", prompt.Title),
			zap.Error(err),
		)
		return g.fallback.Generate(ctx, prompt)
	}
	return parseJobCopy(content), nil
}

func (g *CompletionGenerator) complete(ctx context.Context, prompt JobPrompt) (string, error) {
	payload := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write concise, inclusive job postings in Markdown with three sections titled Description, Responsibilities and Requirements."},
			{Role: "user", Content: buildUserPrompt(prompt)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("textgen: marshal request: %w", err)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("textgen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("textgen: call endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("textgen: endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("textgen: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("textgen: empty completion")
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseJobCopy splits completion output into the three posting sections by
// scanning for Responsibilities and Requirements headings. Text before the
// first recognized heading belongs to the description. Output without any
// recognized heading becomes the description wholesale.
func parseJobCopy(content string) JobCopy {
	section := "description"
	parts := map[string][]string{}
	for _, line := range strings.Split(content, "\n") {
		if name, ok := sectionHeading(line); ok {
			section = name
			continue
		}
		parts[section] = append(parts[section], line)
	}

	parsed := JobCopy{
		Description:      strings.TrimSpace(strings.Join(parts["description"], "\n")),
		Responsibilities: strings.TrimSpace(strings.Join(parts["responsibilities"], "\n")),
		Requirements:     strings.TrimSpace(strings.Join(parts["requirements"], "\n")),
	}
	if parsed.Description == "" && parsed.Responsibilities == "" && parsed.Requirements == "" {
		parsed.Description = strings.TrimSpace(content)
	}
	return parsed
}

func sectionHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	marked := strings.HasPrefix(trimmed, "#") || strings.HasSuffix(trimmed, ":")
	name := strings.ToLower(strings.Trim(trimmed, "#*: \t"))

	switch {
	case strings.HasPrefix(name, "responsibilit"):
		if marked || name == "responsibilities" {
			return "responsibilities", true
		}
	case strings.HasPrefix(name, "requirement") || strings.HasPrefix(name, "qualification"):
		if marked || name == "requirements" {
			return "requirements", true
		}
	case name == "description" || name == "about the role":
		if marked || name == "description" {
			return "description", true
		}
	}
	return "", false
}

func buildUserPrompt(prompt JobPrompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a job posting for the role %q with Description, Responsibilities and Requirements sections.", prompt.Title)
	if prompt.Department != "" {
		fmt.Fprintf(&b, " Department: %s.", prompt.Department)
	}
	if prompt.Location != "" {
		fmt.Fprintf(&b, " Location: %s.", prompt.Location)
	}
	if prompt.WorkType != "" {
		fmt.Fprintf(&b, " Work arrangement: %s.", prompt.WorkType)
	}
	if prompt.ExperienceLevel != "" {
		fmt.Fprintf(&b, " Seniority: %s.", prompt.ExperienceLevel)
	}
	if len(prompt.RequiredSkills) > 0 {
		fmt.Fprintf(&b, " Required skills: %s.", strings.Join(prompt.RequiredSkills, ", "))
	}
	if len(prompt.PreferredSkills) > 0 {
		fmt.Fprintf(&b, " Preferred skills: %s.", strings.Join(prompt.PreferredSkills, ", "))
	}
	if prompt.Tone != "" {
		fmt.Fprintf(&b, " Tone: %s.", prompt.Tone)
	}
	return b.String()
}
