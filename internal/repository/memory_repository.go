package repository

import (
	"context"
	"sync"

	"discount-api/internal/model"
)

// memoryDiscountRepository is an in-memory DiscountRepository for local
// runs and tests. Its guards are evaluated atomically under one lock, so
// the Create guard enforces voucher-code uniqueness across the whole store.
type memoryDiscountRepository struct {
	mu    sync.RWMutex
	items map[string]model.Discount // keyed by id
}

// NewMemoryDiscountRepository creates an empty in-memory discount store.
func NewMemoryDiscountRepository() DiscountRepository {
	return &memoryDiscountRepository{
		items: make(map[string]model.Discount),
	}
}

func (r *memoryDiscountRepository) ListAll(ctx context.Context) ([]model.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	discounts := []model.Discount{}
	for _, d := range r.items {
		discounts = append(discounts, d)
	}
	return discounts, nil
}

func (r *memoryDiscountRepository) ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	discounts := []model.Discount{}
	for _, d := range r.items {
		if d.VenueID == venueID {
			discounts = append(discounts, d)
		}
	}
	return discounts, nil
}

func (r *memoryDiscountRepository) FindByVoucherCode(ctx context.Context, code string) (*model.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.items {
		if d.VoucherCode == code {
			found := d
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryDiscountRepository) Create(ctx context.Context, discount *model.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[discount.ID]; exists {
		return model.ErrRecordExists
	}
	for _, d := range r.items {
		if d.VoucherCode == discount.VoucherCode {
			return model.ErrRecordExists
		}
	}

	r.items[discount.ID] = *discount
	return nil
}

func (r *memoryDiscountRepository) Update(ctx context.Context, id, venueID string, fields model.DiscountFields, updatedAt string) (*model.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, exists := r.items[id]
	if !exists || d.VenueID != venueID {
		return nil, model.ErrRecordNotFound
	}

	d.VoucherCode = fields.VoucherCode
	d.Percentage = fields.Percentage
	d.MinOrder = fields.MinOrder
	d.MaxDiscAmount = fields.MaxDiscAmount
	d.IsActive = fields.IsActive
	d.StartDate = fields.StartDate
	d.EndDate = fields.EndDate
	d.UpdatedAt = updatedAt

	r.items[id] = d
	updated := d
	return &updated, nil
}

func (r *memoryDiscountRepository) Delete(ctx context.Context, id, venueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, exists := r.items[id]
	if !exists || d.VenueID != venueID {
		return model.ErrRecordNotFound
	}

	delete(r.items, id)
	return nil
}

// MemoryVenueRepository is an in-memory VenueRepository for local runs and
// tests. Bindings are added with Bind before serving traffic.
type MemoryVenueRepository struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// NewMemoryVenueRepository creates an empty in-memory venue store.
func NewMemoryVenueRepository() *MemoryVenueRepository {
	return &MemoryVenueRepository{
		bindings: make(map[string]string),
	}
}

// Bind associates a caller's email and subject id with a venue id.
func (r *MemoryVenueRepository) Bind(email, subject, venueID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[email+"\x00"+subject] = venueID
}

// ResolveID returns the venue id bound to the caller, or
// model.ErrOwnerNotFound when no binding exists.
func (r *MemoryVenueRepository) ResolveID(ctx context.Context, email, subject string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	venueID, ok := r.bindings[email+"\x00"+subject]
	if !ok {
		return "", model.ErrOwnerNotFound
	}
	return venueID, nil
}
