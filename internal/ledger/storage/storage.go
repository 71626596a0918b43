// Package storage defines the persistence boundary for campaign snapshots.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/partyledger/internal/ledger/domain"
)

// ErrNotFound indicates no snapshot exists for the tenant.
var ErrNotFound = errors.New("campaign not found")

// CampaignStore persists one whole-campaign snapshot per tenant id. Every
// save fully overwrites the tenant's record; readers never observe partial
// writes.
type CampaignStore interface {
	// Load reads and decodes the tenant's snapshot, applying any pending
	// forward migrations. Returns ErrNotFound when no record exists.
	Load(ctx context.Context, id int64) (*domain.Campaign, error)
	// Save overwrites the tenant's snapshot with the campaign's state.
	Save(ctx context.Context, campaign *domain.Campaign) error
	// Exists reports whether the tenant has a snapshot.
	Exists(ctx context.Context, id int64) (bool, error)
	// Delete removes the tenant's snapshot. Deleting a missing record
	// returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// Close releases the underlying storage handle.
	Close() error
}
