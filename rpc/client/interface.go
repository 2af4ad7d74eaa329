package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// IClient is the calling surface both dispatch modes implement. The method
// set is signature-compatible with the generated *dynamodb.Client, so code
// written against IClient can also run against the real service.
type IClient interface {
	// CreateTable registers a new table under a unique name
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)

	// DescribeTable returns the schema and metadata of an existing table
	DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)

	// ListTables returns the names of all tables in lexicographic order
	ListTables(ctx context.Context, input *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)

	// GetItem reads a single item by its full primary key
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)

	// PutItem stores an item, optionally guarded by a condition
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)

	// DeleteItem removes an item by key, optionally guarded by a condition
	DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// *dynamodb.Client must keep satisfying the client surface
var _ IClient = (*dynamodb.Client)(nil)
