// Package narrative drafts free-text handover summaries from structured
// ward data. When a completion endpoint is configured the draft comes from
// an external language model; otherwise a deterministic template is used.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Drafter produces a narrative handover draft from structured context.
type Drafter interface {
	Draft(ctx context.Context, input DraftInput) (string, error)
}

// DraftInput is the structured material the draft is built from.
type DraftInput struct {
	PatientName   string
	Location      string
	Situation     string
	Background    string
	Assessment    string
	ActiveIssues  []string
	PendingTasks  []string
	CriticalLabs  []string
	Recommendation string
}

// Config points the client at a chat-completion endpoint.
type Config struct {
	URL    string
	APIKey string
	Model  string
}

// Client calls an OpenAI-compatible chat completion API.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are drafting a concise SBAR handover note for a hospital ward. " +
	"Use only the facts provided. Do not invent findings or results."

// Draft requests a completion from the configured endpoint.
func (c *Client) Draft(ctx context.Context, input DraftInput) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: renderPrompt(input)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode draft request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build draft request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("draft request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("draft endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode draft response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("draft endpoint returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func renderPrompt(input DraftInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s (%s)\n", input.PatientName, input.Location)
	if input.Situation != "" {
		fmt.Fprintf(&b, "Situation: %s\n", input.Situation)
	}
	if input.Background != "" {
		fmt.Fprintf(&b, "Background: %s\n", input.Background)
	}
	if input.Assessment != "" {
		fmt.Fprintf(&b, "Assessment: %s\n", input.Assessment)
	}
	writeList(&b, "Active issues", input.ActiveIssues)
	writeList(&b, "Pending tasks", input.PendingTasks)
	writeList(&b, "Critical labs", input.CriticalLabs)
	if input.Recommendation != "" {
		fmt.Fprintf(&b, "Recommendation: %s\n", input.Recommendation)
	}
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// TemplateDrafter renders the SBAR template directly, used when no
// completion endpoint is configured.
type TemplateDrafter struct{}

func (TemplateDrafter) Draft(_ context.Context, input DraftInput) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Handover for %s", input.PatientName)
	if input.Location != "" {
		fmt.Fprintf(&b, " (%s)", input.Location)
	}
	b.WriteString("\n\n")

	if input.Situation != "" {
		fmt.Fprintf(&b, "S: %s\n", input.Situation)
	}
	if input.Background != "" {
		fmt.Fprintf(&b, "B: %s\n", input.Background)
	}
	if input.Assessment != "" {
		fmt.Fprintf(&b, "A: %s\n", input.Assessment)
	}
	if input.Recommendation != "" {
		fmt.Fprintf(&b, "R: %s\n", input.Recommendation)
	}

	writeList(&b, "Active issues", input.ActiveIssues)
	writeList(&b, "Pending tasks", input.PendingTasks)
	writeList(&b, "Critical labs", input.CriticalLabs)

	return strings.TrimSpace(b.String()), nil
}

// NewDrafter picks the client when a URL is configured, the template
// otherwise.
func NewDrafter(cfg Config) Drafter {
	if cfg.URL == "" {
		return TemplateDrafter{}
	}
	return NewClient(cfg)
}
