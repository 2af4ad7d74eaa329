package condition

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func s(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func n(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }

func testItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":     s("u1"),
		"age":    n("36"),
		"email":  s("ada@example.org"),
		"tags":   &types.AttributeValueMemberSS{Value: []string{"admin", "staff"}},
		"scores": &types.AttributeValueMemberL{Value: []types.AttributeValue{n("1"), n("2")}},
	}
}

// TestEvaluateNoCondition tests that the zero input always passes
func TestEvaluateNoCondition(t *testing.T) {
	for _, item := range []map[string]types.AttributeValue{testItem(), nil} {
		ok, err := Evaluate(Input{}, item)
		if err != nil {
			t.Fatalf("Evaluate() failed: %v", err)
		}
		if !ok {
			t.Error("empty condition should pass")
		}
	}
}

// TestEvaluateMutualExclusion tests that both condition forms together are rejected
func TestEvaluateMutualExclusion(t *testing.T) {
	in := Input{
		Expression: aws.String("attribute_exists(id)"),
		Expected: map[string]types.ExpectedAttributeValue{
			"id": {Exists: aws.Bool(true)},
		},
	}
	if _, err := Evaluate(in, testItem()); err == nil {
		t.Error("expected validation error for Expected combined with ConditionExpression")
	}
}

// TestEvaluateExpected tests the legacy Expected map
func TestEvaluateExpected(t *testing.T) {
	tests := []struct {
		name     string
		expected map[string]types.ExpectedAttributeValue
		operator types.ConditionalOperator
		item     map[string]types.AttributeValue
		pass     bool
		wantErr  bool
	}{
		{
			name: "Value shorthand matches",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {Value: s("u1")},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "Value shorthand mismatch",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {Value: s("other")},
			},
			item: testItem(),
			pass: false,
		},
		{
			name: "Exists false on missing item",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {Exists: aws.Bool(false)},
			},
			item: nil,
			pass: true,
		},
		{
			name: "Exists false on present attribute",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {Exists: aws.Bool(false)},
			},
			item: testItem(),
			pass: false,
		},
		{
			name: "Exists true requires a value",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {Exists: aws.Bool(true)},
			},
			item:    testItem(),
			wantErr: true,
		},
		{
			name: "NOT_NULL operator",
			expected: map[string]types.ExpectedAttributeValue{
				"age": {ComparisonOperator: types.ComparisonOperatorNotNull},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "NULL operator on present attribute",
			expected: map[string]types.ExpectedAttributeValue{
				"age": {ComparisonOperator: types.ComparisonOperatorNull},
			},
			item: testItem(),
			pass: false,
		},
		{
			name: "Missing attribute fails comparisons",
			expected: map[string]types.ExpectedAttributeValue{
				"absent": {
					ComparisonOperator: types.ComparisonOperatorLt,
					AttributeValueList: []types.AttributeValue{n("10")},
				},
			},
			item: testItem(),
			pass: false,
		},
		{
			name: "BETWEEN inclusive bounds",
			expected: map[string]types.ExpectedAttributeValue{
				"age": {
					ComparisonOperator: types.ComparisonOperatorBetween,
					AttributeValueList: []types.AttributeValue{n("36"), n("40")},
				},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "IN operator",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {
					ComparisonOperator: types.ComparisonOperatorIn,
					AttributeValueList: []types.AttributeValue{s("u2"), s("u1")},
				},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "BEGINS_WITH operator",
			expected: map[string]types.ExpectedAttributeValue{
				"email": {
					ComparisonOperator: types.ComparisonOperatorBeginsWith,
					AttributeValueList: []types.AttributeValue{s("ada@")},
				},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "CONTAINS on string set",
			expected: map[string]types.ExpectedAttributeValue{
				"tags": {
					ComparisonOperator: types.ComparisonOperatorContains,
					AttributeValueList: []types.AttributeValue{s("admin")},
				},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "NOT_CONTAINS on list",
			expected: map[string]types.ExpectedAttributeValue{
				"scores": {
					ComparisonOperator: types.ComparisonOperatorNotContains,
					AttributeValueList: []types.AttributeValue{n("3")},
				},
			},
			item: testItem(),
			pass: true,
		},
		{
			name: "AND is the default across attributes",
			expected: map[string]types.ExpectedAttributeValue{
				"id":  {Value: s("u1")},
				"age": {Value: n("99")},
			},
			item: testItem(),
			pass: false,
		},
		{
			name: "OR passes with one match",
			expected: map[string]types.ExpectedAttributeValue{
				"id":  {Value: s("u1")},
				"age": {Value: n("99")},
			},
			operator: types.ConditionalOperatorOr,
			item:     testItem(),
			pass:     true,
		},
		{
			name: "Value combined with operator is invalid",
			expected: map[string]types.ExpectedAttributeValue{
				"id": {
					Value:              s("u1"),
					ComparisonOperator: types.ComparisonOperatorEq,
				},
			},
			item:    testItem(),
			wantErr: true,
		},
		{
			name: "Wrong operand count",
			expected: map[string]types.ExpectedAttributeValue{
				"age": {
					ComparisonOperator: types.ComparisonOperatorBetween,
					AttributeValueList: []types.AttributeValue{n("1")},
				},
			},
			item:    testItem(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Evaluate(Input{Expected: tt.expected, ConditionalOperator: tt.operator}, tt.item)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && ok != tt.pass {
				t.Errorf("Evaluate() = %v, want %v", ok, tt.pass)
			}
		})
	}
}
