package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avallon/claimlens/ai"
	"github.com/tmc/langchaingo/llms"
)

const maxGenerateAttempts = 3

// generateJSON runs a chat completion and returns a parseable JSON document.
// The model is asked for strict JSON; markdown fences are stripped and common
// formatting defects repaired before each parse attempt. After
// maxGenerateAttempts failures the last parse error is returned wrapped in
// ai.ErrMalformedResponse.
func generateJSON(ctx context.Context, client llms.Model, content []llms.MessageContent, logger *slog.Logger) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return "", fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if !json.Valid([]byte(responseText)) {
			lastErr = fmt.Errorf("%w: invalid JSON", ai.ErrMalformedResponse)
			logger.Warn("model returned unparseable JSON",
				"attempt", attempt+1,
				"response", responseText)
			continue
		}

		return responseText, nil
	}

	logger.Error("failed to obtain valid JSON after retries", "err", lastErr)
	return "", lastErr
}
