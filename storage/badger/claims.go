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


package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/storage"
	"github.com/dgraph-io/badger/v4"
)

// ClaimRepository implements storage.ClaimRepository for BadgerDB.
type ClaimRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ClaimRepository = (*ClaimRepository)(nil)

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(backend *Backend) (*ClaimRepository, error) {
	idSeq, err := backend.GetSequence(claimIDSeq)
	if err != nil {
		return nil, err
	}

	return &ClaimRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ClaimRepository) Close() error {
	return r.idSeq.Release()
}

// nextID draws the next claim ID from the sequence.
// BadgerDB sequences can return 0 on first call, so 0 is skipped.
func (r *ClaimRepository) nextID() (core.ID, error) {
	next, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// WithTransaction delegates to the backend.
func (r *ClaimRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddClaims adds one or more claims to storage. Claims with a zero ID are
// assigned one from the sequence; a caller-set ID is kept and must not
// collide with a stored claim.
func (r *ClaimRepository) AddClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, claim := range claims {
			if claim.Id == 0 {
				id, err := r.nextID()
				if err != nil {
					return err
				}
				claim.Id = id
			} else {
				existing, err := r.readClaim(tx, makeClaimKey(claim.Id))
				if err != nil {
					return err
				}
				if existing != nil {
					return fmt.Errorf("%w: claim %d", storage.ErrDuplicateKey, claim.Id)
				}
			}

			claim.CreatedAt = time.Now().UTC()
			claim.UpdatedAt = claim.CreatedAt

			if err := r.writeClaim(tx, claim); err != nil {
				return err
			}

			createdKey := makeClaimCreatedKey(claim.CreatedAt, claim.Id)
			if err := tx.Set(createdKey, storage.MarshalID(claim.Id)); err != nil {
				return err
			}

			statusKey := makeClaimStatusKey(claim.Status, claim.CreatedAt, claim.Id)
			if err := tx.Set(statusKey, storage.MarshalID(claim.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return claims, err
}

// UpdateClaims updates existing claims.
func (r *ClaimRepository) UpdateClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, claim := range claims {
			old, err := r.readClaim(tx, makeClaimKey(claim.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// CreatedAt is immutable; keep the stored value.
			claim.CreatedAt = old.CreatedAt
			claim.UpdatedAt = time.Now().UTC()

			if err := r.writeClaim(tx, claim); err != nil {
				return err
			}

			// Reindex by status if it changed
			if old.Status != claim.Status {
				oldKey := makeClaimStatusKey(old.Status, old.CreatedAt, old.Id)
				if err := tx.Delete(oldKey); err != nil {
					return err
				}
				newKey := makeClaimStatusKey(claim.Status, claim.CreatedAt, claim.Id)
				if err := tx.Set(newKey, storage.MarshalID(claim.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return claims, err
}

// DeleteClaims removes claims by their IDs.
func (r *ClaimRepository) DeleteClaims(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeClaimKey(id)

			claim, err := r.readClaim(tx, key)
			if err != nil {
				return err
			}
			if claim == nil {
				return storage.ErrNotFound
			}

			createdKey := makeClaimCreatedKey(claim.CreatedAt, claim.Id)
			if err := tx.Delete(createdKey); err != nil {
				return err
			}

			statusKey := makeClaimStatusKey(claim.Status, claim.CreatedAt, claim.Id)
			if err := tx.Delete(statusKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetClaim retrieves a single claim by ID.
func (r *ClaimRepository) GetClaim(ctx context.Context, id core.ID) (*core.Claim, error) {
	var result *core.Claim
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readClaim(tx, makeClaimKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetClaims retrieves multiple claims by their IDs.
func (r *ClaimRepository) GetClaims(ctx context.Context, ids ...core.ID) ([]*core.Claim, error) {
	var result []*core.Claim
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			claim, err := r.readClaim(tx, makeClaimKey(id))
			if err != nil {
				return err
			}
			if claim != nil {
				result = append(result, claim)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListClaims retrieves claims ordered by creation time descending.
func (r *ClaimRepository) ListClaims(ctx context.Context, limit int) ([]*core.Claim, error) {
	return r.listByIndex([]byte(claimCreatedPrefix+":"), limit)
}

// ListClaimsByStatus retrieves claims with the given status, newest first.
func (r *ClaimRepository) ListClaimsByStatus(ctx context.Context, status core.ClaimStatus, limit int) ([]*core.Claim, error) {
	return r.listByIndex(makePartialClaimStatusKey(status), limit)
}

// listByIndex walks an index prefix in reverse (newest first), resolving
// index values back to full claims.
func (r *ClaimRepository) listByIndex(prefix []byte, limit int) ([]*core.Claim, error) {
	var results []*core.Claim
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the prefix range for reverse iteration.
		seekKey := append(append([]byte{}, prefix...), 0xff)
		for iter.Seek(seekKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			claim, err := r.readClaim(tx, makeClaimKey(id))
			if err != nil {
				return err
			}
			if claim != nil {
				results = append(results, claim)
			}
		}
		return nil
	}, false)
	return results, err
}

// writeClaim stores the primary claim record.
func (r *ClaimRepository) writeClaim(tx *badger.Txn, claim *core.Claim) error {
	return tx.Set(makeClaimKey(claim.Id), storage.MarshalClaim(claim))
}

// readClaim reads a claim by key. Returns nil without error if absent.
func (r *ClaimRepository) readClaim(tx *badger.Txn, key []byte) (*core.Claim, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var claim *core.Claim
	err = item.Value(func(val []byte) error {
		var err error
		claim, err = storage.UnmarshalClaim(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}
