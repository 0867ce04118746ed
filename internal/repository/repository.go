package repository

import (
	"context"

	"discount-api/internal/model"
)

// DiscountRepository defines the store operations for discount records.
// Implementations must honour the conditional-guard semantics: Create fails
// with model.ErrRecordExists when the store-level uniqueness guard trips,
// Update and Delete fail with model.ErrRecordNotFound when no record exists
// under the (id, venueId) key. The guard failure is the authoritative
// Conflict signal; any pre-check a caller performs is an optimisation only.
type DiscountRepository interface {
	// ListAll retrieves every discount record (unfiltered scan).
	ListAll(ctx context.Context) ([]model.Discount, error)

	// ListByVenue retrieves all discounts owned by a venue via the
	// venue secondary index.
	ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error)

	// FindByVoucherCode looks up a discount by voucher code via the
	// voucher-code secondary index. Returns nil when no record matches.
	FindByVoucherCode(ctx context.Context, code string) (*model.Discount, error)

	// Create inserts a new discount guarded against an existing record.
	Create(ctx context.Context, discount *model.Discount) error

	// Update replaces the mutable fields of the record keyed by
	// (id, venueID) and refreshes updatedAt, returning the new record.
	Update(ctx context.Context, id, venueID string, fields model.DiscountFields, updatedAt string) (*model.Discount, error)

	// Delete removes the record keyed by (id, venueID).
	Delete(ctx context.Context, id, venueID string) error
}

// VenueRepository resolves an authenticated caller to an internal venue id.
type VenueRepository interface {
	// ResolveID returns the venue id bound to the caller's email and
	// subject id, or model.ErrOwnerNotFound when no binding exists.
	ResolveID(ctx context.Context, email, subject string) (string, error)
}
