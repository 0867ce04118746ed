package service

import (
	"context"

	"discount-api/internal/auth"
	"discount-api/internal/model"
)

// DiscountService defines the discount lifecycle operations. Owner-scoped
// operations resolve the caller to a venue first and never touch records
// outside that venue.
type DiscountService interface {
	// ListOwned retrieves the discounts of the caller's venue.
	ListOwned(ctx context.Context, ident *auth.Identity) ([]model.Discount, error)

	// ListByVenue retrieves any venue's discounts (public read).
	ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error)

	// ListAll retrieves every discount (privileged profile consumer).
	ListAll(ctx context.Context) ([]model.Discount, error)

	// Create inserts a new discount for the caller's venue after the
	// voucher-code uniqueness check.
	Create(ctx context.Context, ident *auth.Identity, req *model.DiscountRequest) (*model.Discount, error)

	// Update replaces the mutable fields of one of the caller's discounts.
	Update(ctx context.Context, ident *auth.Identity, id string, req *model.DiscountRequest) (*model.Discount, error)

	// Delete removes one of the caller's discounts.
	Delete(ctx context.Context, ident *auth.Identity, id string) error
}
