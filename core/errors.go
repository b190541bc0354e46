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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCaseRecord indicates a CaseRecord failed validation.
	ErrInvalidCaseRecord = errors.New("invalid case record")

	// ErrInvalidClaim indicates a Claim failed validation.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrEmptyCaseID indicates the case ID field is empty.
	ErrEmptyCaseID = errors.New("case id cannot be empty")

	// ErrEmptyCaseText indicates the case transcript is empty.
	ErrEmptyCaseText = errors.New("case transcript cannot be empty")

	// ErrEmptyTranscript indicates a claim transcript is empty.
	ErrEmptyTranscript = errors.New("transcript cannot be empty")

	// ErrInvalidLabel indicates an unknown Label value.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrInvalidStatus indicates an unknown ClaimStatus value.
	ErrInvalidStatus = errors.New("invalid claim status")

	// ErrInvalidScore indicates a classification score outside [0, 1].
	ErrInvalidScore = errors.New("score must be between 0 and 1")
)
