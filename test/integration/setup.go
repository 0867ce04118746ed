package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	appconfig "discount-api/internal/config"
	"discount-api/internal/model"
	"discount-api/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStore represents a local DynamoDB instance with the tables created.
type TestStore struct {
	Container testcontainers.Container
	Client    *dynamodb.Client
	Config    appconfig.StoreConfig
}

// SetupTestStore starts a dynamodb-local container and creates the
// discounts and venue tables.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "amazon/dynamodb-local:2.5.2",
			ExposedPorts: []string{"8000/tcp"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start dynamodb-local container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "8000/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	cfg := appconfig.StoreConfig{
		Backend:          "dynamodb",
		Region:           "ap-southeast-2",
		Endpoint:         fmt.Sprintf("http://%s:%s", host, port.Port()),
		DiscountsTable:   "discounts",
		VenuesTable:      "venue-profiles",
		VenueIndex:       "venueId-index",
		VoucherCodeIndex: "voucherCode-index",
	}

	client, err := repository.NewDynamoClient(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create dynamodb client: %v", err)
	}

	createTables(t, client, cfg)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestStore{
		Container: container,
		Client:    client,
		Config:    cfg,
	}
}

func createTables(t *testing.T, client *dynamodb.Client, cfg appconfig.StoreConfig) {
	t.Helper()

	ctx := context.Background()

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
		t.Fatalf("failed to create discounts table: %v", err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
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
		t.Fatalf("failed to create venues table: %v", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	for _, table := range []string{cfg.DiscountsTable, cfg.VenuesTable} {
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, time.Minute); err != nil {
			t.Fatalf("table %s not ready: %v", table, err)
		}
	}
}

// SeedVenue binds an owner identity to a venue id.
func SeedVenue(t *testing.T, store *TestStore, email, subject, venueID string) {
	t.Helper()

	_, err := store.Client.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(store.Config.VenuesTable),
		Item: map[string]types.AttributeValue{
			"venueEmail": &types.AttributeValueMemberS{Value: email},
			"cognitoId":  &types.AttributeValueMemberS{Value: subject},
			"id":         &types.AttributeValueMemberS{Value: venueID},
		},
	})
	if err != nil {
		t.Fatalf("failed to seed venue: %v", err)
	}
}

// SeedDiscount writes a discount record directly to the table.
func SeedDiscount(t *testing.T, store *TestStore, d model.Discount) {
	t.Helper()

	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		t.Fatalf("failed to marshal discount: %v", err)
	}
	_, err = store.Client.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(store.Config.DiscountsTable),
		Item:      item,
	})
	if err != nil {
		t.Fatalf("failed to seed discount: %v", err)
	}
}

// CleanupDiscounts removes all records from the discounts table.
func CleanupDiscounts(t *testing.T, store *TestStore) {
	t.Helper()

	ctx := context.Background()

	out, err := store.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(store.Config.DiscountsTable),
		ProjectionExpression: aws.String("#id, #vid"),
		ExpressionAttributeNames: map[string]string{
			"#id":  "id",
			"#vid": "venueId",
		},
	})
	if err != nil {
		t.Fatalf("failed to scan discounts table: %v", err)
	}

	for _, item := range out.Items {
		_, err := store.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(store.Config.DiscountsTable),
			Key: map[string]types.AttributeValue{
				"id":      item["id"],
				"venueId": item["venueId"],
			},
		})
		if err != nil {
			t.Fatalf("failed to delete discount: %v", err)
		}
	}
}
