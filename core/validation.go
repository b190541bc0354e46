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


package core

import (
	"fmt"
	"strings"
)

// ValidateCaseRecord validates a corpus case according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - FullText must not be empty
//   - Label must be a known value
//
// NOT validated:
//   - Preview (derived from FullText when absent)
func ValidateCaseRecord(record *CaseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCaseRecord)
	}

	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCaseRecord, ErrEmptyCaseID)
	}

	if strings.TrimSpace(record.FullText) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCaseRecord, ErrEmptyCaseText)
	}

	if err := ValidateLabel(record.Label); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCaseRecord, err)
	}

	return nil
}

// ValidateClaim validates a Claim according to domain rules.
//
// Validation rules:
//   - Transcript must not be empty
//   - Status must be a known value
//
// NOT validated (populated by the intake pipeline):
//   - Extracted, Classification, Similar
//   - ID (0 is valid from database sequences)
func ValidateClaim(claim *Claim) error {
	if claim == nil {
		return fmt.Errorf("%w: claim is nil", ErrInvalidClaim)
	}

	if strings.TrimSpace(claim.Transcript) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClaim, ErrEmptyTranscript)
	}

	if err := ValidateStatus(claim.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}

	return nil
}

// ValidateLabel validates that a Label has a known value.
func ValidateLabel(label Label) error {
	switch label {
	case LabelValid, LabelInvalid, LabelFraudulent:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
}

// ParseLabel converts free-form text into a Label.
// Matching is case-insensitive and trims surrounding whitespace.
func ParseLabel(text string) (Label, error) {
	label := Label(strings.ToLower(strings.TrimSpace(text)))
	if err := ValidateLabel(label); err != nil {
		return "", err
	}
	return label, nil
}

// ValidateStatus validates that a ClaimStatus has a known value.
func ValidateStatus(status ClaimStatus) error {
	switch status {
	case StatusReceived, StatusAnalysed, StatusApproved, StatusDenied, StatusEscalated:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateClassification validates a classification verdict.
// The label must parse and the score must lie in [0, 1].
func ValidateClassification(c *Classification) error {
	if err := ValidateLabel(c.Label); err != nil {
		return err
	}
	if c.Score < 0 || c.Score > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidScore, c.Score)
	}
	return nil
}
