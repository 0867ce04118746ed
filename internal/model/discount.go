package model

import "time"

// TimestampLayout is the wire format for every date field. Values must
// round-trip through this layout byte-for-byte (millisecond precision, UTC
// with a literal Z), matching what existing clients send and store rows hold.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the wire timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Discount represents a venue's promotional voucher record.
type Discount struct {
	ID            string `json:"id" dynamodbav:"id"`
	VenueID       string `json:"venueId" dynamodbav:"venueId"`
	VoucherCode   string `json:"voucherCode" dynamodbav:"voucherCode"`
	Percentage    int    `json:"percentage" dynamodbav:"percentage"`
	MinOrder      int    `json:"minOrder" dynamodbav:"minOrder"`
	MaxDiscAmount int    `json:"maxDiscAmount" dynamodbav:"maxDiscAmount"`
	IsActive      bool   `json:"isActive" dynamodbav:"isActive"`
	StartDate     string `json:"startDate" dynamodbav:"startDate"`
	EndDate       string `json:"endDate" dynamodbav:"endDate"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// DiscountRequest is the submitted body for create and update. Numeric and
// boolean fields are pointers so that zero values still satisfy "required".
type DiscountRequest struct {
	VoucherCode   string `json:"voucherCode" validate:"required"`
	Percentage    *int   `json:"percentage" validate:"required,min=1,max=100"`
	MinOrder      *int   `json:"minOrder" validate:"required,min=0"`
	MaxDiscAmount *int   `json:"maxDiscAmount" validate:"required,min=0"`
	IsActive      *bool  `json:"isActive" validate:"required"`
	StartDate     string `json:"startDate" validate:"required,isodate"`
	EndDate       string `json:"endDate" validate:"required,isodate"`
}

// DiscountFields is the set of mutable fields applied by an update.
type DiscountFields struct {
	VoucherCode   string
	Percentage    int
	MinOrder      int
	MaxDiscAmount int
	IsActive      bool
	StartDate     string
	EndDate       string
}

// Fields converts a validated request into the mutable field set.
func (r *DiscountRequest) Fields() DiscountFields {
	return DiscountFields{
		VoucherCode:   r.VoucherCode,
		Percentage:    *r.Percentage,
		MinOrder:      *r.MinOrder,
		MaxDiscAmount: *r.MaxDiscAmount,
		IsActive:      *r.IsActive,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
	}
}
