package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Label is the adjudication outcome assigned to a claim.
type Label string

const (
	// LabelValid marks a legitimate claim.
	LabelValid Label = "valid"
	// LabelInvalid marks a claim that does not meet policy terms.
	LabelInvalid Label = "invalid"
	// LabelFraudulent marks a claim suspected of fraud.
	LabelFraudulent Label = "fraudulent"
)

// ClaimStatus tracks a claim through its processing lifecycle.
type ClaimStatus string

const (
	// StatusReceived is the initial status of a newly stored claim.
	StatusReceived ClaimStatus = "received"
	// StatusAnalysed means extraction, classification and retrieval completed.
	StatusAnalysed ClaimStatus = "analysed"
	// StatusApproved means an adjudicator accepted the claim.
	StatusApproved ClaimStatus = "approved"
	// StatusDenied means an adjudicator rejected the claim.
	StatusDenied ClaimStatus = "denied"
	// StatusEscalated means the claim was routed to manual review.
	StatusEscalated ClaimStatus = "escalated"
)

// PreviewLength is the maximum number of runes kept in a case preview.
const PreviewLength = 120

// CaseRecord is one labeled past claim in the retrieval corpus.
// Records are authored offline and immutable after an index build.
type CaseRecord struct {
	ID       string `json:"id"`
	Label    Label  `json:"label"`
	Preview  string `json:"preview,omitempty"`
	FullText string `json:"transcript"`
}

// CaseMeta is the per-case metadata duplicated into the index snapshot.
// Row order in the snapshot is the sole join key back to the vectors.
type CaseMeta struct {
	ID      string `json:"id"`
	Label   Label  `json:"label"`
	Preview string `json:"preview"`
}

// Meta returns the metadata entry for the record, deriving the preview
// from the full text when none was authored.
func (r *CaseRecord) Meta() CaseMeta {
	preview := r.Preview
	if preview == "" {
		preview = TruncatePreview(r.FullText)
	}
	return CaseMeta{
		ID:      r.ID,
		Label:   r.Label,
		Preview: preview,
	}
}

// TruncatePreview shortens text to PreviewLength runes.
// Truncation is rune-safe so multi-byte characters are never split.
func TruncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

// SimilarityResult is one ranked match returned by the retriever.
type SimilarityResult struct {
	CaseID     string  `json:"id"`
	Label      Label   `json:"label"`
	Preview    string  `json:"preview"`
	Similarity float64 `json:"similarity"`
}

// ExtractedFields holds the structured fields pulled from a claim transcript.
// Any field may be empty when the transcript does not state it; extractors
// must drop values they cannot ground in the source text rather than guess.
type ExtractedFields struct {
	ClaimantName        string
	ContactPhone        string
	PolicyNumber        string
	IncidentDatetime    string
	IncidentLocation    string
	IncidentDescription string
	ClaimedAmount       float64
	DetectedEntities    []string
}

// Classification is the adjudication verdict produced for a claim.
type Classification struct {
	Label       Label
	Score       float64
	Rationale   string
	PolicyFlags []string
	NextSteps   []string
}

// Claim is a processed insurance claim built from an incoming transcript.
// Extracted, Classification and Similar are populated asynchronously by the
// intake pipeline; Status reflects how far processing has progressed.
type Claim struct {
	Id             ID
	Transcript     string
	Extracted      ExtractedFields
	Classification Classification
	Similar        []SimilarityResult
	Status         ClaimStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
