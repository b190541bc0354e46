// Copyright 2025 Avallon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Classifier implements ai.Classifier using OpenAI-compatible chat APIs.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// verdictJSON is an internal type used for JSON unmarshaling.
type verdictJSON struct {
	Label       string   `json:"label"`
	Score       float64  `json:"score"`
	Rationale   string   `json:"rationale"`
	PolicyFlags []string `json:"policy_flags"`
	NextSteps   []string `json:"suggested_next_steps"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
	}

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new classifier using the provided configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify assigns a validity verdict to a claim using an LLM.
// A verdict whose label does not parse is an error; no default verdict is
// substituted for malformed model output.
func (c *Classifier) Classify(ctx context.Context, fields core.ExtractedFields, transcript string) (core.Classification, error) {
	data, err := json.Marshal(map[string]any{
		"claimant_name":        fields.ClaimantName,
		"contact_phone":        fields.ContactPhone,
		"policy_number":        fields.PolicyNumber,
		"incident_datetime":    fields.IncidentDatetime,
		"incident_location":    fields.IncidentLocation,
		"incident_description": fields.IncidentDescription,
		"claimed_amount":       fields.ClaimedAmount,
		"detected_entities":    fields.DetectedEntities,
	})
	if err != nil {
		return core.Classification{}, err
	}

	systemPrompt := fmt.Sprintf(classificationPromptTemplate, classificationResponseSchema)
	userPrompt := fmt.Sprintf("Data:\n%s\n\nTranscript:\n%s", data, transcript)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	raw, err := generateJSON(ctx, c.client, content, c.logger)
	if err != nil {
		return core.Classification{}, err
	}

	var parsed verdictJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Error("failed to parse classification response", "err", err)
		return core.Classification{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	label, err := core.ParseLabel(parsed.Label)
	if err != nil {
		c.logger.Error("model returned unknown label", "label", parsed.Label)
		return core.Classification{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	verdict := core.Classification{
		Label:       label,
		Score:       clampScore(parsed.Score),
		Rationale:   parsed.Rationale,
		PolicyFlags: parsed.PolicyFlags,
		NextSteps:   parsed.NextSteps,
	}
	return verdict, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
