package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirepath/hirepath/internal/models"
)

func TestTemplateGenerator(t *testing.T) {
	gen := NewTemplateGenerator()

	copy, err := gen.Generate(context.Background(), JobPrompt{
		Title:           "Backend Engineer",
		Department:      "Platform",
		Location:        "Berlin",
		WorkType:        models.WorkTypeHybrid,
		ExperienceLevel: models.LevelSenior,
		RequiredSkills:  []string{"Go", "PostgreSQL"},
		PreferredSkills: []string{"Kubernetes"},
	})
	require.NoError(t, err)
	require.Contains(t, copy.Description, "# Backend Engineer")
	require.Contains(t, copy.Description, "Platform team")
	require.Contains(t, copy.Description, "(hybrid)")
	require.Contains(t, copy.Responsibilities, "Platform")
	require.Contains(t, copy.Requirements, "- Go")
	require.Contains(t, copy.Requirements, "Nice to have:")
	require.Contains(t, copy.Requirements, "- Kubernetes")

	_, err = gen.Generate(context.Background(), JobPrompt{})
	require.Error(t, err)
}

func TestCompletionGeneratorUsesEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.True(t, strings.Contains(req.Messages[1].Content, "Backend Engineer"))

		content := "## Description\nJoin a focused hiring team.\n\n" +
			"## Responsibilities\n- Run structured interviews\n\n" +
			"## Requirements\n- 5 years of Go"
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: content}},
			},
		})
	}))
	defer server.Close()

	gen, err := NewCompletionGenerator(CompletionConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}, NewTemplateGenerator())
	require.NoError(t, err)

	copy, err := gen.Generate(context.Background(), JobPrompt{Title: "Backend Engineer"})
	require.NoError(t, err)
	require.Equal(t, "Join a focused hiring team.", copy.Description)
	require.Equal(t, "- Run structured interviews", copy.Responsibilities)
	require.Equal(t, "- 5 years of Go", copy.Requirements)
}

func TestCompletionGeneratorFallsBackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	gen, err := NewCompletionGenerator(CompletionConfig{BaseURL: server.URL}, NewTemplateGenerator())
	require.NoError(t, err)

	copy, err := gen.Generate(context.Background(), JobPrompt{Title: "Backend Engineer"})
	require.NoError(t, err)
	require.Contains(t, copy.Description, "# Backend Engineer")
	require.NotEmpty(t, copy.Responsibilities)
}

func TestParseJobCopyWithoutHeadings(t *testing.T) {
	parsed := parseJobCopy("A single block of prose about the role.")
	require.Equal(t, "A single block of prose about the role.", parsed.Description)
	require.Empty(t, parsed.Responsibilities)
	require.Empty(t, parsed.Requirements)
}

func TestParseJobCopyColonHeadings(t *testing.T) {
	parsed := parseJobCopy("Great role.\n\nResponsibilities:\n- Ship features\n\nQualifications:\n- Go experience")
	require.Equal(t, "Great role.", parsed.Description)
	require.Equal(t, "- Ship features", parsed.Responsibilities)
	require.Equal(t, "- Go experience", parsed.Requirements)
}
