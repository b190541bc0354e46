package badger

import (
	"context"
	"testing"

	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.ClaimRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func newTestClaim(transcript string) *core.Claim {
	return &core.Claim{
		Transcript: transcript,
		Status:     core.StatusReceived,
	}
}

func TestAddClaims(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	claims, err := repo.AddClaims(ctx, newTestClaim("first"), newTestClaim("second"))
	require.NoError(t, err)
	require.Len(t, claims, 2)

	assert.NotZero(t, claims[0].Id)
	assert.NotZero(t, claims[1].Id)
	assert.NotEqual(t, claims[0].Id, claims[1].Id)
	assert.False(t, claims[0].CreatedAt.IsZero())
	assert.Equal(t, claims[0].CreatedAt, claims[0].UpdatedAt)
}

func TestAddClaimsWithCallerID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	preset := newTestClaim("imported claim")
	preset.Id = core.ID(42)

	added, err := repo.AddClaims(ctx, preset)
	require.NoError(t, err)
	assert.Equal(t, core.ID(42), added[0].Id)

	got, err := repo.GetClaim(ctx, core.ID(42))
	require.NoError(t, err)
	assert.Equal(t, "imported claim", got.Transcript)

	t.Run("duplicate ID rejected", func(t *testing.T) {
		dup := newTestClaim("another claim")
		dup.Id = core.ID(42)
		_, err := repo.AddClaims(ctx, dup)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("zero IDs still drawn from the sequence", func(t *testing.T) {
		generated, err := repo.AddClaims(ctx, newTestClaim("walk-in claim"))
		require.NoError(t, err)
		assert.NotZero(t, generated[0].Id)
		assert.NotEqual(t, core.ID(42), generated[0].Id)
	})
}

func TestGetClaim(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added, err := repo.AddClaims(ctx, newTestClaim("the transcript"))
	require.NoError(t, err)

	got, err := repo.GetClaim(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, added[0].Id, got.Id)
	assert.Equal(t, "the transcript", got.Transcript)
	assert.Equal(t, core.StatusReceived, got.Status)

	_, err = repo.GetClaim(ctx, core.ID(99999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetClaims(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added, err := repo.AddClaims(ctx, newTestClaim("a"), newTestClaim("b"))
	require.NoError(t, err)

	// Missing IDs are skipped without error.
	got, err := repo.GetClaims(ctx, added[0].Id, core.ID(99999), added[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateClaims(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	t.Run("updates fields and timestamps", func(t *testing.T) {
		added, err := repo.AddClaims(ctx, newTestClaim("to analyse"))
		require.NoError(t, err)

		claim := added[0]
		claim.Status = core.StatusAnalysed
		claim.Classification = core.Classification{
			Label: core.LabelValid,
			Score: 0.85,
		}
		claim.Similar = []core.SimilarityResult{
			{CaseID: "c1", Label: core.LabelValid, Preview: "similar case", Similarity: 0.92},
		}

		_, err = repo.UpdateClaims(ctx, claim)
		require.NoError(t, err)

		got, err := repo.GetClaim(ctx, claim.Id)
		require.NoError(t, err)
		assert.Equal(t, core.StatusAnalysed, got.Status)
		assert.Equal(t, core.LabelValid, got.Classification.Label)
		require.Len(t, got.Similar, 1)
		assert.Equal(t, "c1", got.Similar[0].CaseID)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
	})

	t.Run("unknown claim fails", func(t *testing.T) {
		_, err := repo.UpdateClaims(ctx, &core.Claim{Id: core.ID(424242), Transcript: "x", Status: core.StatusReceived})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDeleteClaims(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added, err := repo.AddClaims(ctx, newTestClaim("doomed"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteClaims(ctx, added[0].Id))

	_, err = repo.GetClaim(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteClaims(ctx, added[0].Id), storage.ErrNotFound)

	// Deleted claims no longer appear in listings.
	claims, err := repo.ListClaims(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestListClaims(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, transcript := range []string{"one", "two", "three"} {
		_, err := repo.AddClaims(ctx, newTestClaim(transcript))
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		claims, err := repo.ListClaims(ctx, 0)
		require.NoError(t, err)
		require.Len(t, claims, 3)
		for i := 1; i < len(claims); i++ {
			assert.False(t, claims[i-1].CreatedAt.Before(claims[i].CreatedAt))
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		claims, err := repo.ListClaims(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, claims, 2)
	})
}

func TestListClaimsByStatus(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added, err := repo.AddClaims(ctx, newTestClaim("a"), newTestClaim("b"), newTestClaim("c"))
	require.NoError(t, err)

	// Move one claim to analysed.
	added[1].Status = core.StatusAnalysed
	_, err = repo.UpdateClaims(ctx, added[1])
	require.NoError(t, err)

	received, err := repo.ListClaimsByStatus(ctx, core.StatusReceived, 0)
	require.NoError(t, err)
	assert.Len(t, received, 2)

	analysed, err := repo.ListClaimsByStatus(ctx, core.StatusAnalysed, 0)
	require.NoError(t, err)
	require.Len(t, analysed, 1)
	assert.Equal(t, added[1].Id, analysed[0].Id)

	escalated, err := repo.ListClaimsByStatus(ctx, core.StatusEscalated, 0)
	require.NoError(t, err)
	assert.Empty(t, escalated)
}

func TestClaimRoundTripThroughStorage(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	claim := newTestClaim("Caller reports a rear-end collision on Al-Farabi Avenue.")
	claim.Extracted = core.ExtractedFields{
		ClaimantName:        "Aigerim Bekova",
		ContactPhone:        "+7 701 555 0101",
		PolicyNumber:        "KZ-4411",
		IncidentLocation:    "Al-Farabi Avenue, Almaty",
		IncidentDescription: "rear-end collision",
		ClaimedAmount:       250000,
		DetectedEntities:    []string{"Al-Farabi Avenue", "Almaty"},
	}

	added, err := repo.AddClaims(ctx, claim)
	require.NoError(t, err)

	got, err := repo.GetClaim(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, claim.Extracted, got.Extracted)
	assert.Equal(t, claim.Transcript, got.Transcript)
}
