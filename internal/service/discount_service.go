package service

import (
	"context"
	"fmt"
	"time"

	"discount-api/internal/auth"
	"discount-api/internal/model"
	"discount-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// discountService implements DiscountService.
type discountService struct {
	discountRepo repository.DiscountRepository
	venueRepo    repository.VenueRepository
	venueGroup   string
	now          func() time.Time
	logger       zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(
	discountRepo repository.DiscountRepository,
	venueRepo repository.VenueRepository,
	venueGroup string,
	logger zerolog.Logger,
) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		venueRepo:    venueRepo,
		venueGroup:   venueGroup,
		now:          time.Now,
		logger:       logger.With().Str("service", "discount").Logger(),
	}
}

// resolveOwnerVenueID maps the caller to their venue id. Group membership
// failure is a distinct auth error; a missing venue binding is owner
// not-found, which every owner-scoped operation short-circuits on.
func (s *discountService) resolveOwnerVenueID(ctx context.Context, ident *auth.Identity) (string, error) {
	if ident == nil || !ident.InGroup(s.venueGroup) {
		return "", model.ErrNotVenueMember
	}

	venueID, err := s.venueRepo.ResolveID(ctx, ident.Email, ident.Subject)
	if err != nil {
		return "", err
	}
	return venueID, nil
}

// ListOwned retrieves the discounts of the caller's venue.
func (s *discountService) ListOwned(ctx context.Context, ident *auth.Identity) ([]model.Discount, error) {
	venueID, err := s.resolveOwnerVenueID(ctx, ident)
	if err != nil {
		return nil, err
	}

	discounts, err := s.discountRepo.ListByVenue(ctx, venueID)
	if err != nil {
		s.logger.Error().Err(err).Str("venue_id", venueID).Msg("failed to list owned discounts")
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}

	s.logger.Debug().Str("venue_id", venueID).Int("count", len(discounts)).Msg("listed owned discounts")
	return discounts, nil
}

// ListByVenue retrieves any venue's discounts. No ownership check: this
// backs the public read endpoint.
func (s *discountService) ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error) {
	discounts, err := s.discountRepo.ListByVenue(ctx, venueID)
	if err != nil {
		s.logger.Error().Err(err).Str("venue_id", venueID).Msg("failed to list discounts by venue")
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

// ListAll retrieves every discount in the store.
func (s *discountService) ListAll(ctx context.Context) ([]model.Discount, error) {
	discounts, err := s.discountRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all discounts")
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

// Create inserts a new discount for the caller's venue. The voucher-code
// index lookup is a fast-fail optimisation; the store's conditional write
// in Create is the authoritative uniqueness guarantee, so a concurrent
// loser still surfaces a conflict.
func (s *discountService) Create(ctx context.Context, ident *auth.Identity, req *model.DiscountRequest) (*model.Discount, error) {
	venueID, err := s.resolveOwnerVenueID(ctx, ident)
	if err != nil {
		return nil, err
	}

	existing, err := s.discountRepo.FindByVoucherCode(ctx, req.VoucherCode)
	if err != nil {
		s.logger.Error().Err(err).Str("voucher_code", req.VoucherCode).Msg("voucher code pre-check failed")
		return nil, fmt.Errorf("failed to check voucher code: %w", err)
	}
	if existing != nil {
		return nil, model.ErrVoucherCodeExists
	}

	now := model.FormatTimestamp(s.now())
	fields := req.Fields()
	discount := &model.Discount{
		ID:            uuid.NewString(),
		VenueID:       venueID,
		VoucherCode:   fields.VoucherCode,
		Percentage:    fields.Percentage,
		MinOrder:      fields.MinOrder,
		MaxDiscAmount: fields.MaxDiscAmount,
		IsActive:      fields.IsActive,
		StartDate:     fields.StartDate,
		EndDate:       fields.EndDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		if err == model.ErrRecordExists {
			return nil, err
		}
		s.logger.Error().Err(err).Str("voucher_code", discount.VoucherCode).Msg("failed to create discount")
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}

	s.logger.Info().
		Str("discount_id", discount.ID).
		Str("venue_id", venueID).
		Str("voucher_code", discount.VoucherCode).
		Msg("discount created")

	return discount, nil
}

// Update replaces the mutable fields of one of the caller's discounts.
// The voucher code is applied as submitted without a fresh uniqueness
// check, matching the existing contract.
func (s *discountService) Update(ctx context.Context, ident *auth.Identity, id string, req *model.DiscountRequest) (*model.Discount, error) {
	venueID, err := s.resolveOwnerVenueID(ctx, ident)
	if err != nil {
		return nil, err
	}

	updatedAt := model.FormatTimestamp(s.now())
	discount, err := s.discountRepo.Update(ctx, id, venueID, req.Fields(), updatedAt)
	if err != nil {
		if err == model.ErrRecordNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("discount_id", id).Msg("failed to update discount")
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}

	s.logger.Info().
		Str("discount_id", id).
		Str("venue_id", venueID).
		Msg("discount updated")

	return discount, nil
}

// Delete removes one of the caller's discounts.
func (s *discountService) Delete(ctx context.Context, ident *auth.Identity, id string) error {
	venueID, err := s.resolveOwnerVenueID(ctx, ident)
	if err != nil {
		return err
	}

	if err := s.discountRepo.Delete(ctx, id, venueID); err != nil {
		if err == model.ErrRecordNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("discount_id", id).Msg("failed to delete discount")
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	s.logger.Info().
		Str("discount_id", id).
		Str("venue_id", venueID).
		Msg("discount deleted")

	return nil
}
