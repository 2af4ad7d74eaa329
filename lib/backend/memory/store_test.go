package memory

import (
	"context"
	"testing"

	"github.com/ValentinKolb/lDDB/lib/backend"
	backendtesting "github.com/ValentinKolb/lDDB/lib/backend/testing"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestMemoryBackend runs the conformance suite against the in-memory store
func TestMemoryBackend(t *testing.T) {
	backendtesting.RunBackendTests(t, "memory", func(t *testing.T) backend.IBackend {
		return NewBackend()
	})
}

// TestInstanceIsolation tests that separate backends share no state
func TestInstanceIsolation(t *testing.T) {
	ctx := context.Background()
	first := NewBackend()
	second := NewBackend()

	_, err := first.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String("users"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
	})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	// the second instance must not see the table
	if _, err := second.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String("users")}); err == nil {
		t.Error("table created on one instance is visible on another")
	}
}

// TestListTablesPagination tests Limit and resume behavior
func TestListTablesPagination(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	for _, name := range []string{"ccc", "aaa", "bbb", "ddd"} {
		_, err := b.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(name),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		})
		if err != nil {
			t.Fatalf("CreateTable(%s) failed: %v", name, err)
		}
	}

	// first page
	out, err := b.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(2)})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(out.TableNames) != 2 || out.TableNames[0] != "aaa" || out.TableNames[1] != "bbb" {
		t.Fatalf("unexpected first page: %v", out.TableNames)
	}
	if aws.ToString(out.LastEvaluatedTableName) != "bbb" {
		t.Fatalf("unexpected page marker: %v", out.LastEvaluatedTableName)
	}

	// second page resumes after the marker
	out, err = b.ListTables(ctx, &dynamodb.ListTablesInput{
		ExclusiveStartTableName: out.LastEvaluatedTableName,
		Limit:                   aws.Int32(10),
	})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(out.TableNames) != 2 || out.TableNames[0] != "ccc" || out.TableNames[1] != "ddd" {
		t.Fatalf("unexpected second page: %v", out.TableNames)
	}
	if out.LastEvaluatedTableName != nil {
		t.Errorf("final page should carry no marker, got %v", *out.LastEvaluatedTableName)
	}
}

// TestStoredItemsAreInsulated tests that mutating an input after a put does
// not change what a later get returns
func TestStoredItemsAreInsulated(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	_, err := b.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String("users"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
	})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	item := map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: "u1"},
		"name": &types.AttributeValueMemberS{Value: "Ada"},
	}
	if _, err := b.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String("users"), Item: item}); err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}

	// caller reuses the map for something else
	item["name"] = &types.AttributeValueMemberS{Value: "Grace"}
	delete(item, "id")

	out, err := b.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String("users"),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "u1"}},
	})
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	name, ok := out.Item["name"].(*types.AttributeValueMemberS)
	if !ok || name.Value != "Ada" {
		t.Errorf("stored item was mutated through the caller's map: %v", out.Item)
	}
}
