package repository

import (
	"context"
	"fmt"

	"discount-api/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// venueRepository resolves venue ids from the external venue-profiles
// table, keyed by (venueEmail, cognitoId). Read-only from this service.
type venueRepository struct {
	client *dynamodb.Client
	table  string
	logger zerolog.Logger
}

// NewVenueRepository creates a DynamoDB-backed venue repository.
func NewVenueRepository(client *dynamodb.Client, table string, logger zerolog.Logger) VenueRepository {
	return &venueRepository{
		client: client,
		table:  table,
		logger: logger.With().Str("repository", "venue").Logger(),
	}
}

// ResolveID looks up the venue bound to the caller's email and subject id,
// projecting only the internal id.
func (r *venueRepository) ResolveID(ctx context.Context, email, subject string) (string, error) {
	proj := expression.NamesList(expression.Name("id"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return "", fmt.Errorf("failed to build venue projection: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"venueEmail": &types.AttributeValueMemberS{Value: email},
			"cognitoId":  &types.AttributeValueMemberS{Value: subject},
		},
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		r.logger.Error().Err(err).Str("email", email).Msg("failed to get venue profile")
		return "", fmt.Errorf("failed to get venue profile: %w", err)
	}

	if len(out.Item) == 0 {
		r.logger.Debug().Str("email", email).Msg("no venue bound to caller")
		return "", model.ErrOwnerNotFound
	}

	var venue struct {
		ID string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &venue); err != nil {
		return "", fmt.Errorf("failed to unmarshal venue profile: %w", err)
	}
	if venue.ID == "" {
		return "", model.ErrOwnerNotFound
	}

	return venue.ID, nil
}
