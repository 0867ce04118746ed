package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	appconfig "discount-api/internal/config"
	"discount-api/internal/model"
	"discount-api/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Creates the discounts and venue-profiles tables against a local DynamoDB
// endpoint and seeds a sample venue with two discounts. Intended for local
// development only:
//
//	DYNAMODB_LOCAL=http://localhost:8000 go run scripts/create_tables.go
func main() {
	endpoint := os.Getenv("DYNAMODB_LOCAL")
	if endpoint == "" {
		endpoint = "http://localhost:8000"
	}

	cfg := appconfig.StoreConfig{
		Backend:          "dynamodb",
		Region:           "ap-southeast-2",
		Endpoint:         endpoint,
		DiscountsTable:   "discounts",
		VenuesTable:      "venue-profiles",
		VenueIndex:       "venueId-index",
		VoucherCodeIndex: "voucherCode-index",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := repository.NewDynamoClient(ctx, cfg, zerolog.Nop())
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	if err := createDiscountsTable(ctx, client, cfg); err != nil {
		log.Fatalf("failed to create discounts table: %v", err)
	}
	if err := createVenuesTable(ctx, client, cfg); err != nil {
		log.Fatalf("failed to create venues table: %v", err)
	}
	if err := seed(ctx, client, cfg); err != nil {
		log.Fatalf("failed to seed sample data: %v", err)
	}

	fmt.Println("tables created and seeded")
}

func createDiscountsTable(ctx context.Context, client *dynamodb.Client, cfg appconfig.StoreConfig) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(cfg.DiscountsTable),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("venueId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("voucherCode"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("venueId"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(cfg.VenueIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("venueId"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String(cfg.VoucherCodeIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("voucherCode"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		var exists *types.ResourceInUseException
		if errors.As(err, &exists) {
			fmt.Printf("table %s already exists\n", cfg.DiscountsTable)
			return nil
		}
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.DiscountsTable)}, time.Minute)
}

func createVenuesTable(ctx context.Context, client *dynamodb.Client, cfg appconfig.StoreConfig) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(cfg.VenuesTable),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("venueEmail"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("cognitoId"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("venueEmail"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("cognitoId"), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		var exists *types.ResourceInUseException
		if errors.As(err, &exists) {
			fmt.Printf("table %s already exists\n", cfg.VenuesTable)
			return nil
		}
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.VenuesTable)}, time.Minute)
}

func seed(ctx context.Context, client *dynamodb.Client, cfg appconfig.StoreConfig) error {
	venueID := "venue-local-1"

	_, err := client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(cfg.VenuesTable),
		Item: map[string]types.AttributeValue{
			"venueEmail": &types.AttributeValueMemberS{Value: "owner@example.com"},
			"cognitoId":  &types.AttributeValueMemberS{Value: "local-subject-1"},
			"id":         &types.AttributeValueMemberS{Value: venueID},
		},
	})
	if err != nil {
		return err
	}

	now := model.FormatTimestamp(time.Now())
	samples := []model.Discount{
		{
			ID:            uuid.NewString(),
			VenueID:       venueID,
			VoucherCode:   "WELCOME10",
			Percentage:    10,
			MinOrder:      50,
			MaxDiscAmount: 20,
			IsActive:      true,
			StartDate:     "2026-01-01T00:00:00.000Z",
			EndDate:       "2026-12-31T00:00:00.000Z",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            uuid.NewString(),
			VenueID:       venueID,
			VoucherCode:   "LUNCH25",
			Percentage:    25,
			MinOrder:      30,
			MaxDiscAmount: 15,
			IsActive:      false,
			StartDate:     "2026-03-01T00:00:00.000Z",
			EndDate:       "2026-03-31T00:00:00.000Z",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	for _, d := range samples {
		item, err := attributevalue.MarshalMap(d)
		if err != nil {
			return err
		}
		_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(cfg.DiscountsTable),
			Item:      item,
		})
		if err != nil {
			return err
		}
		fmt.Printf("seeded discount %s (%s)\n", d.VoucherCode, d.ID)
	}

	return nil
}
