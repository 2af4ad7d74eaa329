package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/lDDB/lib/backend"
	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// BackendFactory is a function that creates a fresh backend (or a client
// bound to a fresh backend) for one test.
type BackendFactory func(t *testing.T) backend.IBackend

// RunBackendTests runs the conformance test suite against a backend
// implementation. The rpc package runs the same suite through both dispatch
// modes, so every property holds identically in-process and over the
// network.
func RunBackendTests(t *testing.T, name string, factory BackendFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateTable", func(t *testing.T) {
			testCreateTable(t, factory(t))
		})

		t.Run("CreateTableValidation", func(t *testing.T) {
			testCreateTableValidation(t, factory(t))
		})

		t.Run("PutGetRoundTrip", func(t *testing.T) {
			testPutGetRoundTrip(t, factory(t))
		})

		t.Run("PutIdempotence", func(t *testing.T) {
			testPutIdempotence(t, factory(t))
		})

		t.Run("GetMissingItem", func(t *testing.T) {
			testGetMissingItem(t, factory(t))
		})

		t.Run("UnknownTable", func(t *testing.T) {
			testUnknownTable(t, factory(t))
		})

		t.Run("KeyValidation", func(t *testing.T) {
			testKeyValidation(t, factory(t))
		})

		t.Run("Projection", func(t *testing.T) {
			testProjection(t, factory(t))
		})

		t.Run("ConditionExpression", func(t *testing.T) {
			testConditionExpression(t, factory(t))
		})

		t.Run("LegacyExpected", func(t *testing.T) {
			testLegacyExpected(t, factory(t))
		})

		t.Run("TypeDiscrimination", func(t *testing.T) {
			testTypeDiscrimination(t, factory(t))
		})

		t.Run("ReturnValues", func(t *testing.T) {
			testReturnValues(t, factory(t))
		})

		t.Run("DeleteItem", func(t *testing.T) {
			testDeleteItem(t, factory(t))
		})

		t.Run("DescribeAndList", func(t *testing.T) {
			testDescribeAndList(t, factory(t))
		})

		t.Run("SortKeyTable", func(t *testing.T) {
			testSortKeyTable(t, factory(t))
		})

		t.Run("ConditionalAtomicity", func(t *testing.T) {
			testConditionalAtomicity(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func s(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func n(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }

// mustCreateTable creates a table with a single string partition key "id".
func mustCreateTable(t *testing.T, b backend.IBackend, name string) {
	t.Helper()
	_, err := b.CreateTable(context.Background(), &dynamodb.CreateTableInput{
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

func mustPut(t *testing.T, b backend.IBackend, table string, item map[string]types.AttributeValue) {
	t.Helper()
	_, err := b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}
}

func mustGet(t *testing.T, b backend.IBackend, table string, key map[string]types.AttributeValue) map[string]types.AttributeValue {
	t.Helper()
	out, err := b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	return out.Item
}

// requireErrorCode asserts that err carries the given API error code on any
// call path (typed exception in-process, decoded exception or generic API
// error over the network).
func requireErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", code)
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected %s, got non-API error: %v", code, err)
	}
	if apiErr.ErrorCode() != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, apiErr.ErrorCode(), err)
	}
}

func requireItemEqual(t *testing.T, want, got map[string]types.AttributeValue) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("item mismatch: expected %d attributes, got %d (%v)", len(want), len(got), got)
	}
	for name, wantValue := range want {
		gotValue, ok := got[name]
		if !ok {
			t.Fatalf("item mismatch: missing attribute %q", name)
		}
		if !ddb.Equal(wantValue, gotValue) {
			t.Fatalf("item mismatch: attribute %q differs (want %v, got %v)", name, wantValue, gotValue)
		}
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreateTable(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")

	// second creation of the same name must fail, the first table stays
	_, err := b.CreateTable(context.Background(), &dynamodb.CreateTableInput{
		TableName: aws.String("users"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("other"), AttributeType: types.ScalarAttributeTypeN},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("other"), KeyType: types.KeyTypeHash},
		},
	})
	requireErrorCode(t, err, "ResourceInUseException")

	desc, err := b.DescribeTable(context.Background(), &dynamodb.DescribeTableInput{TableName: aws.String("users")})
	if err != nil {
		t.Fatalf("DescribeTable failed: %v", err)
	}
	if got := aws.ToString(desc.Table.KeySchema[0].AttributeName); got != "id" {
		t.Errorf("original schema was modified by the failed creation: key attribute is %q", got)
	}
}

func testCreateTableValidation(t *testing.T, b backend.IBackend) {
	cases := []struct {
		name  string
		input *dynamodb.CreateTableInput
	}{
		{
			// empty, not nil: a nil key schema is already rejected by the
			// generated client before the request leaves the process
			name: "NoPartitionKey",
			input: &dynamodb.CreateTableInput{
				TableName: aws.String("broken"),
				AttributeDefinitions: []types.AttributeDefinition{
					{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
				},
				KeySchema: []types.KeySchemaElement{},
			},
		},
		{
			name: "UndeclaredKeyAttribute",
			input: &dynamodb.CreateTableInput{
				TableName:            aws.String("broken"),
				AttributeDefinitions: []types.AttributeDefinition{},
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
				},
			},
		},
		{
			name: "TableNameTooShort",
			input: &dynamodb.CreateTableInput{
				TableName: aws.String("ab"),
				AttributeDefinitions: []types.AttributeDefinition{
					{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
				},
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.CreateTable(context.Background(), tc.input)
			requireErrorCode(t, err, "ValidationException")
		})
	}
}

func testPutGetRoundTrip(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")

	item := map[string]types.AttributeValue{
		"id":      s("u1"),
		"name":    s("Ada"),
		"age":     n("36"),
		"blob":    &types.AttributeValueMemberB{Value: []byte{0x01, 0x02}},
		"tags":    &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"scores":  &types.AttributeValueMemberNS{Value: []string{"1", "2.5"}},
		"flag":    &types.AttributeValueMemberBOOL{Value: true},
		"nothing": &types.AttributeValueMemberNULL{Value: true},
		"nested": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{s("x"), n("7")}},
		}},
	}

	mustPut(t, b, "users", item)
	got := mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("u1")})
	requireItemEqual(t, item, got)
}

func testPutIdempotence(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")

	item := map[string]types.AttributeValue{"id": s("u1"), "name": s("Ada")}
	mustPut(t, b, "users", item)
	mustPut(t, b, "users", item)

	got := mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("u1")})
	requireItemEqual(t, item, got)
}

func testGetMissingItem(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")

	got := mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("nobody")})
	if got != nil {
		t.Errorf("expected empty result for a missing item, got %v", got)
	}
}

func testUnknownTable(t *testing.T, b backend.IBackend) {
	_, err := b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String("never-created"),
		Key:       map[string]types.AttributeValue{"id": s("u1")},
	})
	requireErrorCode(t, err, "ResourceNotFoundException")

	_, err = b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String("never-created"),
		Item:      map[string]types.AttributeValue{"id": s("u1")},
	})
	requireErrorCode(t, err, "ResourceNotFoundException")
}

func testKeyValidation(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")

	// missing key attribute
	_, err := b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String("users"),
		Item:      map[string]types.AttributeValue{"name": s("Ada")},
	})
	requireErrorCode(t, err, "ValidationException")

	// mistyped key attribute (schema declares S)
	_, err = b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String("users"),
		Item:      map[string]types.AttributeValue{"id": n("1")},
	})
	requireErrorCode(t, err, "ValidationException")

	// surplus key attribute on get
	_, err = b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String("users"),
		Key:       map[string]types.AttributeValue{"id": s("u1"), "bogus": s("x")},
	})
	requireErrorCode(t, err, "ValidationException")

	// the failed puts must not have stored anything
	if got := mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("1")}); got != nil {
		t.Errorf("store was modified by a failing put: %v", got)
	}
}

func testProjection(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	mustPut(t, b, "users", map[string]types.AttributeValue{
		"id": s("u1"), "name": s("Ada"), "age": n("36"),
	})

	// AttributesToGet, including an unknown name (silently ignored)
	out, err := b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName:       aws.String("users"),
		Key:             map[string]types.AttributeValue{"id": s("u1")},
		AttributesToGet: []string{"name", "does-not-exist"},
	})
	if err != nil {
		t.Fatalf("GetItem with AttributesToGet failed: %v", err)
	}
	requireItemEqual(t, map[string]types.AttributeValue{"name": s("Ada")}, out.Item)

	// ProjectionExpression with a name alias
	out, err = b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName:                aws.String("users"),
		Key:                      map[string]types.AttributeValue{"id": s("u1")},
		ProjectionExpression:     aws.String("#n, age"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	if err != nil {
		t.Fatalf("GetItem with ProjectionExpression failed: %v", err)
	}
	requireItemEqual(t, map[string]types.AttributeValue{"name": s("Ada"), "age": n("36")}, out.Item)
}

func testConditionExpression(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	existing := map[string]types.AttributeValue{"id": s("u1"), "age": n("36")}
	mustPut(t, b, "users", existing)

	ctx := context.Background()

	// attribute_not_exists on a populated key fails and carries the item
	_, err := b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String("users"),
		Item:                map[string]types.AttributeValue{"id": s("u1"), "age": n("1")},
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		t.Fatalf("expected ConditionalCheckFailedException, got %v", err)
	}
	requireItemEqual(t, existing, ccf.Item)

	// the store must be unchanged
	requireItemEqual(t, existing, mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("u1")}))

	// comparison with value substitution succeeds
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String("users"),
		Item:                      map[string]types.AttributeValue{"id": s("u1"), "age": n("37")},
		ConditionExpression:       aws.String("attribute_exists(id) AND age < :limit"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":limit": n("40")},
	})
	if err != nil {
		t.Fatalf("conditional put should have passed: %v", err)
	}

	// grouping and OR
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String("users"),
		Item:                      map[string]types.AttributeValue{"id": s("u1"), "age": n("38")},
		ConditionExpression:       aws.String("(age = :a OR age = :b) AND NOT attribute_not_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":a": n("37"), ":b": n("99")},
	})
	if err != nil {
		t.Fatalf("grouped conditional put should have passed: %v", err)
	}

	// BETWEEN and begins_with
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String("users"),
		Item:                      map[string]types.AttributeValue{"id": s("u1")},
		ConditionExpression:       aws.String("age BETWEEN :lo AND :hi AND begins_with(id, :p)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":lo": n("30"), ":hi": n("40"), ":p": s("u")},
	})
	if err != nil {
		t.Fatalf("BETWEEN/begins_with conditional put should have passed: %v", err)
	}

	// malformed expression is a validation error, not a condition failure
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String("users"),
		Item:                map[string]types.AttributeValue{"id": s("u1")},
		ConditionExpression: aws.String("size(id) > :x"),
	})
	requireErrorCode(t, err, "ValidationException")
}

func testLegacyExpected(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	mustPut(t, b, "users", map[string]types.AttributeValue{"id": s("u1"), "age": n("36")})

	ctx := context.Background()

	// Exists=false on a populated key fails
	_, err := b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String("users"),
		Item:      map[string]types.AttributeValue{"id": s("u1")},
		Expected: map[string]types.ExpectedAttributeValue{
			"id": {Exists: aws.Bool(false)},
		},
	})
	requireErrorCode(t, err, "ConditionalCheckFailedException")

	// comparison operator GE passes
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String("users"),
		Item:      map[string]types.AttributeValue{"id": s("u1"), "age": n("37")},
		Expected: map[string]types.ExpectedAttributeValue{
			"age": {
				ComparisonOperator: types.ComparisonOperatorGe,
				AttributeValueList: []types.AttributeValue{n("36")},
			},
		},
	})
	if err != nil {
		t.Fatalf("legacy GE condition should have passed: %v", err)
	}

	// OR combination: one failing, one passing attribute condition
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String("users"),
		Item:                map[string]types.AttributeValue{"id": s("u1"), "age": n("38")},
		ConditionalOperator: types.ConditionalOperatorOr,
		Expected: map[string]types.ExpectedAttributeValue{
			"id":  {Exists: aws.Bool(false)},
			"age": {Value: n("37")},
		},
	})
	if err != nil {
		t.Fatalf("legacy OR condition should have passed: %v", err)
	}

	// Expected and ConditionExpression together are rejected
	_, err = b.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String("users"),
		Item:                map[string]types.AttributeValue{"id": s("u1")},
		ConditionExpression: aws.String("attribute_exists(id)"),
		Expected: map[string]types.ExpectedAttributeValue{
			"id": {Exists: aws.Bool(false)},
		},
	})
	requireErrorCode(t, err, "ValidationException")
}

func testTypeDiscrimination(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	mustPut(t, b, "users", map[string]types.AttributeValue{"id": s("1")})

	// the stored value is the string "1"; comparing against the number "1"
	// must fail even though the text matches
	_, err := b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName:                 aws.String("users"),
		Item:                      map[string]types.AttributeValue{"id": s("1"), "seen": &types.AttributeValueMemberBOOL{Value: true}},
		ConditionExpression:       aws.String("id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": n("1")},
	})
	requireErrorCode(t, err, "ConditionalCheckFailedException")
}

func testReturnValues(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	old := map[string]types.AttributeValue{"id": s("u1"), "name": s("Ada")}
	mustPut(t, b, "users", old)

	out, err := b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName:    aws.String("users"),
		Item:         map[string]types.AttributeValue{"id": s("u1"), "name": s("Grace")},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		t.Fatalf("PutItem with ReturnValues failed: %v", err)
	}
	requireItemEqual(t, old, out.Attributes)

	// unsupported ReturnValues
	_, err = b.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName:    aws.String("users"),
		Item:         map[string]types.AttributeValue{"id": s("u1")},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	requireErrorCode(t, err, "ValidationException")
}

func testDeleteItem(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "users")
	old := map[string]types.AttributeValue{"id": s("u1"), "name": s("Ada")}
	mustPut(t, b, "users", old)

	ctx := context.Background()

	// conditional delete that fails leaves the item in place
	_, err := b.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String("users"),
		Key:                 map[string]types.AttributeValue{"id": s("u1")},
		ConditionExpression: aws.String("attribute_not_exists(name)"),
	})
	requireErrorCode(t, err, "ConditionalCheckFailedException")
	requireItemEqual(t, old, mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("u1")}))

	// successful delete returns the old item when requested
	out, err := b.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String("users"),
		Key:          map[string]types.AttributeValue{"id": s("u1")},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	requireItemEqual(t, old, out.Attributes)

	if got := mustGet(t, b, "users", map[string]types.AttributeValue{"id": s("u1")}); got != nil {
		t.Errorf("item still present after delete: %v", got)
	}

	// deleting an absent item is not an error
	if _, err := b.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String("users"),
		Key:       map[string]types.AttributeValue{"id": s("u1")},
	}); err != nil {
		t.Errorf("deleting an absent item should succeed: %v", err)
	}
}

func testDescribeAndList(t *testing.T, b backend.IBackend) {
	for _, name := range []string{"bbb", "aaa", "ccc"} {
		mustCreateTable(t, b, name)
	}

	out, err := b.ListTables(context.Background(), &dynamodb.ListTablesInput{})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	want := []string{"aaa", "bbb", "ccc"}
	if len(out.TableNames) != len(want) {
		t.Fatalf("expected %d tables, got %v", len(want), out.TableNames)
	}
	for i, name := range want {
		if out.TableNames[i] != name {
			t.Errorf("expected table %q at position %d, got %q", name, i, out.TableNames[i])
		}
	}

	_, err = b.DescribeTable(context.Background(), &dynamodb.DescribeTableInput{TableName: aws.String("missing")})
	requireErrorCode(t, err, "ResourceNotFoundException")
}

func testSortKeyTable(t *testing.T, b backend.IBackend) {
	_, err := b.CreateTable(context.Background(), &dynamodb.CreateTableInput{
		TableName: aws.String("events"),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("shard"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("seq"), AttributeType: types.ScalarAttributeTypeN},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("shard"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("seq"), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		t.Fatalf("CreateTable with sort key failed: %v", err)
	}

	// distinct sort keys are distinct items
	mustPut(t, b, "events", map[string]types.AttributeValue{"shard": s("a"), "seq": n("1"), "v": s("one")})
	mustPut(t, b, "events", map[string]types.AttributeValue{"shard": s("a"), "seq": n("2"), "v": s("two")})

	got := mustGet(t, b, "events", map[string]types.AttributeValue{"shard": s("a"), "seq": n("1")})
	requireItemEqual(t, map[string]types.AttributeValue{"shard": s("a"), "seq": n("1"), "v": s("one")}, got)

	// key without the sort attribute is invalid
	_, err = b.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String("events"),
		Key:       map[string]types.AttributeValue{"shard": s("a")},
	})
	requireErrorCode(t, err, "ValidationException")
}

func testConditionalAtomicity(t *testing.T, b backend.IBackend) {
	mustCreateTable(t, b, "locks")

	const racers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []string
		failures  int
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("racer-%d", i)
			_, err := b.PutItem(context.Background(), &dynamodb.PutItemInput{
				TableName:           aws.String("locks"),
				Item:                map[string]types.AttributeValue{"id": s("the-lock"), "owner": s(owner)},
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes = append(successes, owner)
				return
			}
			var ccf *types.ConditionalCheckFailedException
			if errors.As(err, &ccf) {
				failures++
			} else {
				t.Errorf("unexpected error during race: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(successes) != 1 {
		t.Fatalf("expected exactly one winning put, got %d", len(successes))
	}
	if failures != racers-1 {
		t.Errorf("expected %d conditional failures, got %d", racers-1, failures)
	}

	// the stored item belongs to the winner
	got := mustGet(t, b, "locks", map[string]types.AttributeValue{"id": s("the-lock")})
	if owner, ok := got["owner"].(*types.AttributeValueMemberS); !ok || owner.Value != successes[0] {
		t.Errorf("stored item does not belong to the winner %q: %v", successes[0], got)
	}
}
