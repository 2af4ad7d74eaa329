package wire

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestValueRoundTrip tests that a deeply nested value survives the full
// encode, JSON, decode cycle unchanged
func TestValueRoundTrip(t *testing.T) {
	original := &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"s":    &types.AttributeValueMemberS{Value: "text"},
		"n":    &types.AttributeValueMemberN{Value: "-12.5"},
		"b":    &types.AttributeValueMemberB{Value: []byte{0x00, 0xff}},
		"bool": &types.AttributeValueMemberBOOL{Value: true},
		"null": &types.AttributeValueMemberNULL{Value: true},
		"ss":   &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"ns":   &types.AttributeValueMemberNS{Value: []string{"1", "2"}},
		"bs":   &types.AttributeValueMemberBS{Value: [][]byte{{1}, {2}}},
		"l": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "elem"},
			&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"inner": &types.AttributeValueMemberN{Value: "1"},
			}},
		}},
	}}

	data, err := json.Marshal(EncodeValue(original))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wireValue AttributeValue
	if err := json.Unmarshal(data, &wireValue); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	decoded, err := DecodeValue(wireValue)
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}

	if !ddb.Equal(original, decoded) {
		t.Errorf("round trip changed the value: %v != %v", original, decoded)
	}
}

// TestDecodeValueMalformed tests rejection of invalid wire values
func TestDecodeValueMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value AttributeValue
	}{
		{"No member set", AttributeValue{}},
		{
			name: "Two members set",
			value: AttributeValue{
				S: aws.String("x"),
				N: aws.String("1"),
			},
		},
		{
			name: "Malformed nested value",
			value: AttributeValue{
				L: &[]AttributeValue{{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeValue(tt.value); err == nil {
				t.Error("expected error for malformed value")
			}
		})
	}
}

// TestPutItemRequestInput tests decoding a request body the SDK would send
func TestPutItemRequestInput(t *testing.T) {
	body := `{
		"TableName": "users",
		"Item": {"id": {"S": "u1"}, "age": {"N": "36"}},
		"ConditionExpression": "attribute_not_exists(id) OR age < :limit",
		"ExpressionAttributeValues": {":limit": {"N": "40"}},
		"ReturnValues": "ALL_OLD"
	}`

	var req PutItemRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	input, err := req.Input()
	if err != nil {
		t.Fatalf("Input() failed: %v", err)
	}

	if aws.ToString(input.TableName) != "users" {
		t.Errorf("unexpected table name %v", input.TableName)
	}
	if id, ok := input.Item["id"].(*types.AttributeValueMemberS); !ok || id.Value != "u1" {
		t.Errorf("unexpected item key: %v", input.Item["id"])
	}
	if aws.ToString(input.ConditionExpression) == "" {
		t.Error("condition expression was dropped")
	}
	if limit, ok := input.ExpressionAttributeValues[":limit"].(*types.AttributeValueMemberN); !ok || limit.Value != "40" {
		t.Errorf("unexpected substitution value: %v", input.ExpressionAttributeValues)
	}
	if input.ReturnValues != types.ReturnValueAllOld {
		t.Errorf("unexpected ReturnValues %v", input.ReturnValues)
	}
}

// TestLegacyExpectedDecoding tests the Expected map wire form
func TestLegacyExpectedDecoding(t *testing.T) {
	body := `{
		"TableName": "users",
		"Item": {"id": {"S": "u1"}},
		"ConditionalOperator": "OR",
		"Expected": {
			"id": {"Exists": false},
			"age": {"ComparisonOperator": "GE", "AttributeValueList": [{"N": "36"}]}
		}
	}`

	var req PutItemRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	input, err := req.Input()
	if err != nil {
		t.Fatalf("Input() failed: %v", err)
	}

	if input.ConditionalOperator != types.ConditionalOperatorOr {
		t.Errorf("unexpected conditional operator %v", input.ConditionalOperator)
	}
	if exists := input.Expected["id"].Exists; exists == nil || *exists {
		t.Errorf("unexpected Exists: %v", exists)
	}
	age := input.Expected["age"]
	if age.ComparisonOperator != types.ComparisonOperatorGe || len(age.AttributeValueList) != 1 {
		t.Errorf("unexpected comparison condition: %+v", age)
	}
}

// TestEncodeError tests the error envelope mapping
func TestEncodeError(t *testing.T) {
	t.Run("ConditionalCheckFailedCarriesItem", func(t *testing.T) {
		err := &types.ConditionalCheckFailedException{
			Message: aws.String("The conditional request failed"),
			Item: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: "u1"},
			},
		}
		status, resp := EncodeError(err)
		if status != http.StatusBadRequest {
			t.Errorf("unexpected status %d", status)
		}
		if !strings.HasSuffix(resp.Type, "#ConditionalCheckFailedException") {
			t.Errorf("unexpected error type %q", resp.Type)
		}
		if resp.Item == nil || resp.Item["id"].S == nil {
			t.Errorf("error response lost the conflicting item: %+v", resp.Item)
		}
	})

	t.Run("ValidationException", func(t *testing.T) {
		status, resp := EncodeError(ddb.NewValidationException("bad input"))
		if status != http.StatusBadRequest {
			t.Errorf("unexpected status %d", status)
		}
		if !strings.HasSuffix(resp.Type, "#ValidationException") {
			t.Errorf("unexpected error type %q", resp.Type)
		}
		if resp.Message != "bad input" {
			t.Errorf("unexpected message %q", resp.Message)
		}
	})

	t.Run("ResourceNotFound", func(t *testing.T) {
		err := &types.ResourceNotFoundException{Message: aws.String("Table: users not found")}
		status, resp := EncodeError(err)
		if status != http.StatusBadRequest {
			t.Errorf("unexpected status %d", status)
		}
		if !strings.HasSuffix(resp.Type, "#ResourceNotFoundException") {
			t.Errorf("unexpected error type %q", resp.Type)
		}
	})

	t.Run("UnknownErrorIsServerFault", func(t *testing.T) {
		status, resp := EncodeError(errors.New("boom"))
		if status != http.StatusInternalServerError {
			t.Errorf("unexpected status %d", status)
		}
		if !strings.HasSuffix(resp.Type, "#InternalServerError") {
			t.Errorf("unexpected error type %q", resp.Type)
		}
	})
}
