package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func testSchema(t *testing.T) *KeySchema {
	t.Helper()
	schema, err := NewKeySchema(
		[]types.KeySchemaElement{
			{AttributeName: aws.String("shard"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("seq"), KeyType: types.KeyTypeRange},
		},
		[]types.AttributeDefinition{
			{AttributeName: aws.String("shard"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("seq"), AttributeType: types.ScalarAttributeTypeN},
		},
	)
	if err != nil {
		t.Fatalf("NewKeySchema() failed: %v", err)
	}
	return schema
}

// TestNewKeySchema tests schema validation
func TestNewKeySchema(t *testing.T) {
	tests := []struct {
		name        string
		elements    []types.KeySchemaElement
		definitions []types.AttributeDefinition
		wantErr     bool
	}{
		{
			name: "Partition key only",
			elements: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			definitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
		},
		{
			name:     "No key elements",
			elements: nil,
			definitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			wantErr: true,
		},
		{
			name: "Key attribute without definition",
			elements: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			definitions: nil,
			wantErr:     true,
		},
		{
			name: "Range key before hash key",
			elements: []types.KeySchemaElement{
				{AttributeName: aws.String("seq"), KeyType: types.KeyTypeRange},
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			definitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("seq"), AttributeType: types.ScalarAttributeTypeN},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeySchema(tt.elements, tt.definitions)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewKeySchema() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCompositeKey tests the injective key encoding
func TestCompositeKey(t *testing.T) {
	schema := testSchema(t)

	keyOf := func(shard, seq string) string {
		t.Helper()
		key, err := schema.CompositeKey(map[string]types.AttributeValue{
			"shard": s(shard),
			"seq":   n(seq),
		})
		if err != nil {
			t.Fatalf("CompositeKey() failed: %v", err)
		}
		return key
	}

	// identical keys collapse
	if keyOf("a", "1") != keyOf("a", "1") {
		t.Error("identical keys produced different encodings")
	}

	// the encoding must stay injective even when concatenations collide
	if keyOf("ab", "1") == keyOf("a", "b1") {
		t.Error("different keys produced the same encoding")
	}

	// missing key attribute
	if _, err := schema.CompositeKey(map[string]types.AttributeValue{"shard": s("a")}); err == nil {
		t.Error("expected error for missing sort key attribute")
	}

	// mistyped key attribute
	if _, err := schema.CompositeKey(map[string]types.AttributeValue{
		"shard": n("1"),
		"seq":   n("1"),
	}); err == nil {
		t.Error("expected error for mistyped partition key")
	}
}

// TestValidateKey tests exact key matching
func TestValidateKey(t *testing.T) {
	schema := testSchema(t)

	tests := []struct {
		name    string
		key     map[string]types.AttributeValue
		wantErr bool
	}{
		{
			name:    "Complete key",
			key:     map[string]types.AttributeValue{"shard": s("a"), "seq": n("1")},
			wantErr: false,
		},
		{
			name:    "Missing sort key",
			key:     map[string]types.AttributeValue{"shard": s("a")},
			wantErr: true,
		},
		{
			name:    "Surplus attribute",
			key:     map[string]types.AttributeValue{"shard": s("a"), "seq": n("1"), "extra": s("x")},
			wantErr: true,
		},
		{
			name:    "Empty key",
			key:     map[string]types.AttributeValue{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateTableName tests the table name rules
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"Simple name", "users", false},
		{"Allowed special characters", "a-b_c.d", false},
		{"Minimum length", "abc", false},
		{"Too short", "ab", true},
		{"Empty", "", true},
		{"Illegal character", "users!", true},
		{"Space", "my table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
		})
	}
}
