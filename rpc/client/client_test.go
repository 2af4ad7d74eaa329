package client

import (
	"context"
	"testing"

	"github.com/ValentinKolb/lDDB/lib/backend"
	"github.com/ValentinKolb/lDDB/lib/backend/memory"
	backendtesting "github.com/ValentinKolb/lDDB/lib/backend/testing"
	"github.com/ValentinKolb/lDDB/rpc/common"
	"github.com/ValentinKolb/lDDB/rpc/server"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// backendAdapter narrows an IClient back to the backend interface so the
// shared conformance suite can run through either dispatch mode.
type backendAdapter struct {
	c IClient
}

func (a backendAdapter) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error) {
	return a.c.CreateTable(ctx, input)
}

func (a backendAdapter) DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
	return a.c.DescribeTable(ctx, input)
}

func (a backendAdapter) ListTables(ctx context.Context, input *dynamodb.ListTablesInput) (*dynamodb.ListTablesOutput, error) {
	return a.c.ListTables(ctx, input)
}

func (a backendAdapter) GetItem(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return a.c.GetItem(ctx, input)
}

func (a backendAdapter) PutItem(ctx context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	return a.c.PutItem(ctx, input)
}

func (a backendAdapter) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	return a.c.DeleteItem(ctx, input)
}

// TestLocalClientConformance runs the full conformance suite through the
// in-process dispatch mode
func TestLocalClientConformance(t *testing.T) {
	backendtesting.RunBackendTests(t, "local", func(t *testing.T) backend.IBackend {
		return backendAdapter{c: NewLocalClient(memory.NewBackend())}
	})
}

// TestRemoteClientConformance runs the same suite through a real listener
// and a generated SDK client, so every property that holds in-process also
// holds across the wire protocol
func TestRemoteClientConformance(t *testing.T) {
	backendtesting.RunBackendTests(t, "remote", func(t *testing.T) backend.IBackend {
		serv := server.NewRPCServer(common.ServerConfig{
			Endpoint:      "127.0.0.1:0",
			TimeoutSecond: 10,
			LogLevel:      "error",
		}, memory.NewBackend())

		addr, err := serv.Bind()
		if err != nil {
			t.Fatalf("failed to bind server: %v", err)
		}
		t.Cleanup(func() { _ = serv.Close() })

		c := NewRemoteClient(common.ClientConfig{
			Endpoint:      addr,
			TimeoutSecond: 10,
		})
		return backendAdapter{c: c}
	})
}
