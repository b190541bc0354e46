package storage

import (
	"context"

	"github.com/avallon/claimlens/core"
)

// ClaimRepository provides operations for managing processed claims.
// Implementations must be thread-safe and support concurrent access.
type ClaimRepository interface {
	// AddClaims adds one or more claims to storage.
	// Generates new IDs from sequence and sets CreatedAt/UpdatedAt.
	// Returns the claims with generated IDs and timestamps populated.
	AddClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error)

	// UpdateClaims updates existing claims.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any claim doesn't exist.
	UpdateClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error)

	// DeleteClaims removes claims by their IDs.
	// Returns ErrNotFound if any claim doesn't exist.
	DeleteClaims(ctx context.Context, ids ...core.ID) error

	// GetClaim retrieves a single claim by ID.
	// Returns ErrNotFound if the claim doesn't exist.
	GetClaim(ctx context.Context, id core.ID) (*core.Claim, error)

	// GetClaims retrieves multiple claims by their IDs.
	// Returns only the claims that exist (no error for missing claims).
	GetClaims(ctx context.Context, ids ...core.ID) ([]*core.Claim, error)

	// ListClaims retrieves claims ordered by creation time descending.
	// Returns up to limit claims; limit <= 0 means no limit.
	ListClaims(ctx context.Context, limit int) ([]*core.Claim, error)

	// ListClaimsByStatus retrieves claims with the given status, ordered by
	// creation time descending.
	ListClaimsByStatus(ctx context.Context, status core.ClaimStatus, limit int) ([]*core.Claim, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
