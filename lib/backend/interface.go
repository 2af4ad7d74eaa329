package backend

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// IBackend is the capability interface every storage implementation must
// satisfy to be served by the rpc layer. Inputs and outputs are the SDK's
// generated operation shapes; errors are the modeled exception types
// (ResourceNotFoundException, ResourceInUseException,
// ConditionalCheckFailedException, InternalServerError) plus
// ddb.ValidationException.
//
// Implementations must be safe for concurrent use. The built-in in-memory
// implementation lives in the memory subpackage; any conforming value - a
// test double included - is interchangeable.
type IBackend interface {
	// CreateTable registers a new, empty table. Exactly one concurrent
	// creator of a given name wins; the others observe
	// ResourceInUseException.
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error)
	// DescribeTable returns the schema and item count of a table.
	DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error)
	// ListTables returns the registered table names in lexicographic order.
	ListTables(ctx context.Context, input *dynamodb.ListTablesInput) (*dynamodb.ListTablesOutput, error)
	// GetItem reads one item by primary key. A missing item is an empty
	// output, not an error.
	GetItem(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	// PutItem inserts or replaces one item, gated on an optional condition
	// over the previous item. The condition check and the mutation are one
	// critical section.
	PutItem(ctx context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	// DeleteItem removes one item by primary key, gated on an optional
	// condition like PutItem. Deleting an absent item is not an error.
	DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
}
