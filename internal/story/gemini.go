package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"moneystory/internal/analysis"
)

const systemPrompt = "You are a friendly, non-judgmental personal finance coach for young professionals in India."

// GeminiTeller writes the money story with a Gemini model.
type GeminiTeller struct {
	client *genai.Client
	model  string
}

// NewGeminiTeller builds a teller for the given model. The API key comes
// from the environment (GEMINI_API_KEY) when apiKey is empty.
func NewGeminiTeller(ctx context.Context, apiKey, model string) (*GeminiTeller, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiTeller{client: client, model: model}, nil
}

func (g *GeminiTeller) Tell(ctx context.Context, report analysis.MonthlyReport) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	prompt := systemPrompt + "\n\n" +
		"You are given this month's financial analysis as JSON:\n" +
		string(payload) + "\n\n" +
		"Task:\n" +
		"- Write a conversational, empathetic \"money story\" for this month.\n" +
		"- Use very simple language and short paragraphs.\n" +
		"- Do NOT mention that you used stats or data; just talk like a coach.\n" +
		"- Include: how much they roughly earned and spent, the biggest spending areas in plain language, a gentle comment on savings health (not shaming), and 2-3 concrete realistic suggestions for next month.\n" +
		"- Keep it under 300 words. Plain text only, no Markdown."

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}
