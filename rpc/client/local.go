package client

import (
	"context"

	"github.com/ValentinKolb/lDDB/lib/backend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewLocalClient creates a client that dispatches directly into an
// in-process backend. Inputs and outputs are handed over as-is: no
// serialization, no transport, no copies beyond what the backend itself
// makes to protect its state.
func NewLocalClient(backend backend.IBackend) IClient {
	return &localClient{backend: backend}
}

type localClient struct {
	backend backend.IBackend
}

// --------------------------------------------------------------------------
// Interface Methods (docu see client.IClient)
// --------------------------------------------------------------------------

// The functional options are part of the shared signature but configure the
// generated HTTP client; there is nothing for them to configure here.

func (c *localClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return c.backend.CreateTable(ctx, input)
}

func (c *localClient) DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return c.backend.DescribeTable(ctx, input)
}

func (c *localClient) ListTables(ctx context.Context, input *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return c.backend.ListTables(ctx, input)
}

func (c *localClient) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return c.backend.GetItem(ctx, input)
}

func (c *localClient) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return c.backend.PutItem(ctx, input)
}

func (c *localClient) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return c.backend.DeleteItem(ctx, input)
}
