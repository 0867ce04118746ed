package repository

import (
	"context"
	"fmt"

	appconfig "discount-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
)

// NewDynamoClient creates a DynamoDB client from the store configuration.
// When an endpoint override is set (dynamodb-local) static throwaway
// credentials are used so no AWS profile is needed.
func NewDynamoClient(ctx context.Context, cfg appconfig.StoreConfig, logger zerolog.Logger) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info().
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Str("discounts_table", cfg.DiscountsTable).
		Str("venues_table", cfg.VenuesTable).
		Msg("DynamoDB client created")

	return client, nil
}
