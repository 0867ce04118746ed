package repository

import (
	"context"
	"errors"
	"fmt"

	"discount-api/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// discountRepository implements DiscountRepository against a DynamoDB table
// with partition key id, sort key venueId, and secondary indexes on venueId
// and voucherCode.
type discountRepository struct {
	client           *dynamodb.Client
	table            string
	venueIndex       string
	voucherCodeIndex string
	logger           zerolog.Logger
}

// NewDiscountRepository creates a DynamoDB-backed discount repository.
func NewDiscountRepository(client *dynamodb.Client, table, venueIndex, voucherCodeIndex string, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		client:           client,
		table:            table,
		venueIndex:       venueIndex,
		voucherCodeIndex: voucherCodeIndex,
		logger:           logger.With().Str("repository", "discount").Logger(),
	}
}

// ListAll retrieves every discount record via a full table scan. The
// discount dataset is a small, bounded business set; no pagination is
// exposed to callers.
func (r *discountRepository) ListAll(ctx context.Context) ([]model.Discount, error) {
	discounts := []model.Discount{}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discounts")
			return nil, fmt.Errorf("failed to scan discounts: %w", err)
		}

		var batch []model.Discount
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			r.logger.Error().Err(err).Msg("failed to unmarshal discount items")
			return nil, fmt.Errorf("failed to unmarshal discounts: %w", err)
		}
		discounts = append(discounts, batch...)
	}

	return discounts, nil
}

// ListByVenue retrieves all discounts owned by a venue via the venue index.
func (r *discountRepository) ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error) {
	keyCond := expression.Key("venueId").Equal(expression.Value(venueID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build venue query: %w", err)
	}

	discounts := []model.Discount{}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.venueIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Error().Err(err).Str("venue_id", venueID).Msg("failed to query discounts by venue")
			return nil, fmt.Errorf("failed to query discounts by venue: %w", err)
		}

		var batch []model.Discount
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			r.logger.Error().Err(err).Msg("failed to unmarshal discount items")
			return nil, fmt.Errorf("failed to unmarshal discounts: %w", err)
		}
		discounts = append(discounts, batch...)
	}

	return discounts, nil
}

// FindByVoucherCode looks up a discount by voucher code via the
// voucher-code index. Returns nil when no record matches.
func (r *discountRepository) FindByVoucherCode(ctx context.Context, code string) (*model.Discount, error) {
	keyCond := expression.Key("voucherCode").Equal(expression.Value(code))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build voucher code query: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.voucherCodeIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_code", code).Msg("failed to query discount by voucher code")
		return nil, fmt.Errorf("failed to query discount by voucher code: %w", err)
	}

	if len(out.Items) == 0 {
		return nil, nil
	}

	var d model.Discount
	if err := attributevalue.UnmarshalMap(out.Items[0], &d); err != nil {
		r.logger.Error().Err(err).Msg("failed to unmarshal discount item")
		return nil, fmt.Errorf("failed to unmarshal discount: %w", err)
	}

	return &d, nil
}

// Create inserts a new discount. The put carries a conditional guard
// requiring neither the record key nor its voucherCode attribute to exist;
// a guard failure is the authoritative Conflict signal.
func (r *discountRepository) Create(ctx context.Context, discount *model.Discount) error {
	item, err := attributevalue.MarshalMap(discount)
	if err != nil {
		return fmt.Errorf("failed to marshal discount: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id")).
		And(expression.AttributeNotExists(expression.Name("voucherCode")))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build create condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			r.logger.Warn().
				Str("discount_id", discount.ID).
				Str("voucher_code", discount.VoucherCode).
				Msg("conditional guard rejected discount create")
			return model.ErrRecordExists
		}
		r.logger.Error().Err(err).Str("discount_id", discount.ID).Msg("failed to put discount")
		return fmt.Errorf("failed to put discount: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of the record keyed by (id, venueID).
// The update is conditional on the record already existing, which also
// prevents cross-venue mutation: a wrong venueID addresses a missing key.
func (r *discountRepository) Update(ctx context.Context, id, venueID string, fields model.DiscountFields, updatedAt string) (*model.Discount, error) {
	update := expression.
		Set(expression.Name("voucherCode"), expression.Value(fields.VoucherCode)).
		Set(expression.Name("percentage"), expression.Value(fields.Percentage)).
		Set(expression.Name("minOrder"), expression.Value(fields.MinOrder)).
		Set(expression.Name("maxDiscAmount"), expression.Value(fields.MaxDiscAmount)).
		Set(expression.Name("isActive"), expression.Value(fields.IsActive)).
		Set(expression.Name("startDate"), expression.Value(fields.StartDate)).
		Set(expression.Name("endDate"), expression.Value(fields.EndDate)).
		Set(expression.Name("updatedAt"), expression.Value(updatedAt))
	cond := expression.AttributeExists(expression.Name("id"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       discountKey(id, venueID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			r.logger.Debug().
				Str("discount_id", id).
				Str("venue_id", venueID).
				Msg("conditional guard rejected discount update")
			return nil, model.ErrRecordNotFound
		}
		r.logger.Error().Err(err).Str("discount_id", id).Msg("failed to update discount")
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}

	var d model.Discount
	if err := attributevalue.UnmarshalMap(out.Attributes, &d); err != nil {
		r.logger.Error().Err(err).Msg("failed to unmarshal updated discount")
		return nil, fmt.Errorf("failed to unmarshal updated discount: %w", err)
	}

	return &d, nil
}

// Delete removes the record keyed by (id, venueID), conditional on it
// existing.
func (r *discountRepository) Delete(ctx context.Context, id, venueID string) error {
	cond := expression.AttributeExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build delete condition: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      discountKey(id, venueID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			r.logger.Debug().
				Str("discount_id", id).
				Str("venue_id", venueID).
				Msg("conditional guard rejected discount delete")
			return model.ErrRecordNotFound
		}
		r.logger.Error().Err(err).Str("discount_id", id).Msg("failed to delete discount")
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	return nil
}

// discountKey builds the composite (id, venueId) primary key.
func discountKey(id, venueID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":      &types.AttributeValueMemberS{Value: id},
		"venueId": &types.AttributeValueMemberS{Value: venueID},
	}
}
