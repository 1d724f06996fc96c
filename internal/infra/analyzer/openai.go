// Package analyzer provides nutrition estimation backends. The OpenAI
// backend asks a chat model for macro estimates; the mock backend
// produces deterministic values for development and tests.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/infra/metrics"
)

const estimatePrompt = `You are a nutrition estimator. Given a meal description,
respond with a single JSON object and nothing else:
{"name": string, "calories": int, "protein_g": float, "carbs_g": float, "fat_g": float}
Amounts are for one typical serving unless the description says otherwise.
Protein, carbs, and fat are grams.`

// OpenAI estimates nutrition facts through the OpenAI chat API.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an analyzer using the given API key and model.
// An empty model falls back to gpt-4o-mini.
func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model, timeout: timeout}
}

// Analyze implements domain.NutritionAnalyzer.
func (o *OpenAI) Analyze(ctx context.Context, description string) (domain.NutritionEstimate, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: estimatePrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AnalyzerSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.NutritionEstimate{}, fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return domain.NutritionEstimate{}, fmt.Errorf("%w: empty completion", domain.ErrAnalyzerUnavailable)
	}

	var est domain.NutritionEstimate
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &est); err != nil {
		return domain.NutritionEstimate{}, fmt.Errorf("decode estimate: %w", err)
	}
	if est.Name == "" {
		est.Name = description
	}
	if est.Calories < 0 {
		return domain.NutritionEstimate{}, fmt.Errorf("estimate has negative calories for %q", description)
	}
	return est, nil
}
