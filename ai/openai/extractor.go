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

// FieldExtractor implements ai.FieldExtractor using OpenAI-compatible chat APIs.
type FieldExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// extractedJSON is an internal type used for JSON unmarshaling.
// It matches the structure requested from the LLM; pointer fields
// distinguish null from empty.
type extractedJSON struct {
	ClaimantName        *string  `json:"claimant_name"`
	ContactPhone        *string  `json:"contact_phone"`
	PolicyNumber        *string  `json:"policy_number"`
	IncidentDatetime    *string  `json:"incident_datetime"`
	IncidentLocation    *string  `json:"incident_location"`
	IncidentDescription string   `json:"incident_description"`
	ClaimedAmount       *float64 `json:"claimed_amount"`
	DetectedEntities    []string `json:"detected_entities"`
}

// newFieldExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFieldExtractor(config *ai.Config) (*FieldExtractor, error) {
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

	return &FieldExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewFieldExtractor creates a new field extractor using the provided configuration.
//
// Returns ai.FieldExtractor interface to enforce abstraction.
func NewFieldExtractor(config *ai.Config) (ai.FieldExtractor, error) {
	return newFieldExtractor(config)
}

// Extract pulls structured claim fields out of a transcript using an LLM.
// Values the transcript cannot corroborate are dropped, not substituted.
func (e *FieldExtractor) Extract(ctx context.Context, transcript string) (core.ExtractedFields, error) {
	systemPrompt := fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema)
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
				llms.TextPart(transcript),
			},
		},
	}

	raw, err := generateJSON(ctx, e.client, content, e.logger)
	if err != nil {
		return core.ExtractedFields{}, err
	}

	var parsed extractedJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		e.logger.Error("failed to parse extraction response", "err", err)
		return core.ExtractedFields{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	fields := core.ExtractedFields{
		ClaimantName:        groundedValue(deref(parsed.ClaimantName), transcript),
		ContactPhone:        groundedPhone(deref(parsed.ContactPhone), transcript),
		PolicyNumber:        groundedValue(deref(parsed.PolicyNumber), transcript),
		IncidentDatetime:    deref(parsed.IncidentDatetime),
		IncidentLocation:    groundedValue(deref(parsed.IncidentLocation), transcript),
		IncidentDescription: parsed.IncidentDescription,
	}
	if parsed.ClaimedAmount != nil {
		fields.ClaimedAmount = *parsed.ClaimedAmount
	}

	// Keep only entities the transcript actually mentions
	for _, entity := range parsed.DetectedEntities {
		if grounded := groundedValue(entity, transcript); grounded != "" {
			fields.DetectedEntities = append(fields.DetectedEntities, grounded)
		} else {
			e.logger.Debug("dropping ungrounded entity", "entity", entity)
		}
	}

	return fields, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
