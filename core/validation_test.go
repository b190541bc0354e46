package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCaseRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		record := &CaseRecord{ID: "c1", Label: LabelValid, FullText: "rear-ended near Almaty"}
		assert.NoError(t, ValidateCaseRecord(record))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateCaseRecord(nil)
		assert.ErrorIs(t, err, ErrInvalidCaseRecord)
	})

	t.Run("empty id", func(t *testing.T) {
		record := &CaseRecord{Label: LabelValid, FullText: "text"}
		err := ValidateCaseRecord(record)
		assert.ErrorIs(t, err, ErrInvalidCaseRecord)
		assert.ErrorIs(t, err, ErrEmptyCaseID)
	})

	t.Run("whitespace-only transcript", func(t *testing.T) {
		record := &CaseRecord{ID: "c1", Label: LabelValid, FullText: "   "}
		err := ValidateCaseRecord(record)
		assert.ErrorIs(t, err, ErrEmptyCaseText)
	})

	t.Run("unknown label", func(t *testing.T) {
		record := &CaseRecord{ID: "c1", Label: "maybe", FullText: "text"}
		err := ValidateCaseRecord(record)
		assert.ErrorIs(t, err, ErrInvalidLabel)
	})
}

func TestValidateClaim(t *testing.T) {
	t.Run("valid claim", func(t *testing.T) {
		claim := &Claim{Transcript: "pipe burst, water damage", Status: StatusReceived}
		assert.NoError(t, ValidateClaim(claim))
	})

	t.Run("nil claim", func(t *testing.T) {
		assert.ErrorIs(t, ValidateClaim(nil), ErrInvalidClaim)
	})

	t.Run("empty transcript", func(t *testing.T) {
		claim := &Claim{Status: StatusReceived}
		err := ValidateClaim(claim)
		assert.ErrorIs(t, err, ErrEmptyTranscript)
	})

	t.Run("unknown status", func(t *testing.T) {
		claim := &Claim{Transcript: "text", Status: "pending"}
		err := ValidateClaim(claim)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestValidateClassification(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := &Classification{Label: LabelFraudulent, Score: 0.91}
		assert.NoError(t, ValidateClassification(c))
	})

	t.Run("score out of range", func(t *testing.T) {
		c := &Classification{Label: LabelValid, Score: 1.2}
		assert.ErrorIs(t, ValidateClassification(c), ErrInvalidScore)
	})

	t.Run("bad label", func(t *testing.T) {
		c := &Classification{Label: "approved", Score: 0.5}
		assert.ErrorIs(t, ValidateClassification(c), ErrInvalidLabel)
	})
}

func TestClaimMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	claim := Claim{
		Id:         42,
		Transcript: "rear-ended near Almaty, bumper damage",
		Extracted: ExtractedFields{
			ClaimantName:        "Aigerim N.",
			IncidentLocation:    "Almaty",
			IncidentDescription: "rear-ended, bumper damage",
			ClaimedAmount:       1250.50,
			DetectedEntities:    []string{"Almaty", "bumper"},
		},
		Classification: Classification{
			Label:       LabelValid,
			Score:       0.87,
			Rationale:   "consistent with policy coverage",
			PolicyFlags: []string{},
			NextSteps:   []string{"request photos"},
		},
		Similar: []SimilarityResult{
			{CaseID: "c1", Label: LabelValid, Preview: "rear-ended...", Similarity: 0.93},
		},
		Status:    StatusAnalysed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	buf := make([]byte, ClaimMUS.Size(claim))
	n := ClaimMUS.Marshal(claim, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := ClaimMUS.Unmarshal(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	assert.Equal(t, claim.Id, decoded.Id)
	assert.Equal(t, claim.Transcript, decoded.Transcript)
	assert.Equal(t, claim.Extracted, decoded.Extracted)
	assert.Equal(t, claim.Classification, decoded.Classification)
	assert.Equal(t, claim.Similar, decoded.Similar)
	assert.Equal(t, claim.Status, decoded.Status)
	assert.True(t, claim.CreatedAt.Equal(decoded.CreatedAt))
}

func TestClaimMUSTruncatedData(t *testing.T) {
	claim := Claim{Transcript: "short", Status: StatusReceived}
	buf := make([]byte, ClaimMUS.Size(claim))
	ClaimMUS.Marshal(claim, buf)

	_, _, err := ClaimMUS.Unmarshal(buf[:2])
	assert.Error(t, err)
}
