package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateTables provisions the four tables for an environment: users and
// posts keyed by id, the follow-edge table with its by-followee GSI, and
// the email claim table. The posts table gets a stream with old images so
// the media reaper can release deleted posts' blobs.
func CreateTables(ctx context.Context, client *dynamodb.Client, config Config) error {
	config.validate()

	// Users table
	if _, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.UsersTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	}); err != nil {
		return fmt.Errorf("create table %s: %w", config.UsersTable, err)
	}

	// Posts table, streaming old images for the media reaper
	if _, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.PostsTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
		StreamSpecification: &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: types.StreamViewTypeNewAndOldImages,
		},
	}); err != nil {
		return fmt.Errorf("create table %s: %w", config.PostsTable, err)
	}

	// Follow-edge table (follower_id, followee_id) with the reverse GSI
	if _, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.FollowTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("follower_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("followee_id"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("follower_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("followee_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(byFolloweeIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("followee_id"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("follower_id"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}); err != nil {
		return fmt.Errorf("create table %s: %w", config.FollowTable, err)
	}

	// Email claim table
	if _, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(config.EmailTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	}); err != nil {
		return fmt.Errorf("create table %s: %w", config.EmailTable, err)
	}

	// Wait for all tables to be active
	for _, tableName := range config.tableNames() {
		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		}, 2*time.Minute); err != nil {
			return fmt.Errorf("wait for table %s: %w", tableName, err)
		}
	}

	return nil
}

// DeleteTables drops all four tables. Used by test teardown and the CLI.
func DeleteTables(ctx context.Context, client *dynamodb.Client, config Config) error {
	config.validate()
	for _, tableName := range config.tableNames() {
		if _, err := client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
			TableName: aws.String(tableName),
		}); err != nil {
			return fmt.Errorf("delete table %s: %w", tableName, err)
		}
	}
	return nil
}

func (c Config) tableNames() []string {
	return []string{c.UsersTable, c.PostsTable, c.FollowTable, c.EmailTable}
}
