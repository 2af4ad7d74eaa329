package condition

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestEvaluateExpression tests the condition expression grammar end to end
func TestEvaluateExpression(t *testing.T) {
	item := testItem()

	tests := []struct {
		name    string
		expr    string
		names   map[string]string
		values  map[string]types.AttributeValue
		pass    bool
		wantErr bool
	}{
		{
			name: "attribute_exists on present attribute",
			expr: "attribute_exists(id)",
			pass: true,
		},
		{
			name: "attribute_exists on absent attribute",
			expr: "attribute_exists(absent)",
			pass: false,
		},
		{
			name: "attribute_not_exists on absent attribute",
			expr: "attribute_not_exists(absent)",
			pass: true,
		},
		{
			name:   "Equality with value substitution",
			expr:   "id = :v",
			values: map[string]types.AttributeValue{":v": s("u1")},
			pass:   true,
		},
		{
			name:   "Inequality",
			expr:   "id <> :v",
			values: map[string]types.AttributeValue{":v": s("u2")},
			pass:   true,
		},
		{
			name:   "Numeric comparison",
			expr:   "age >= :min",
			values: map[string]types.AttributeValue{":min": n("36")},
			pass:   true,
		},
		{
			name:   "Numeric comparison is by value not text",
			expr:   "age < :limit",
			values: map[string]types.AttributeValue{":limit": n("100")},
			pass:   true,
		},
		{
			name:   "Comparison across variants fails",
			expr:   "id = :v",
			values: map[string]types.AttributeValue{":v": n("1")},
			pass:   false,
		},
		{
			name:   "Name alias substitution",
			expr:   "#i = :v",
			names:  map[string]string{"#i": "id"},
			values: map[string]types.AttributeValue{":v": s("u1")},
			pass:   true,
		},
		{
			name:    "Undefined name alias",
			expr:    "#missing = :v",
			values:  map[string]types.AttributeValue{":v": s("u1")},
			wantErr: true,
		},
		{
			name:    "Undefined value reference",
			expr:    "id = :missing",
			wantErr: true,
		},
		{
			name:   "AND short-circuits",
			expr:   "attribute_not_exists(id) AND absent = :v",
			values: map[string]types.AttributeValue{":v": s("x")},
			pass:   false,
		},
		{
			name:   "OR lower precedence than AND",
			expr:   "attribute_not_exists(id) AND attribute_exists(id) OR attribute_exists(age)",
			pass:   true,
		},
		{
			name: "Parentheses override precedence",
			expr: "attribute_not_exists(id) AND (attribute_exists(id) OR attribute_exists(age))",
			pass: false,
		},
		{
			name: "NOT binds tightest",
			expr: "NOT attribute_not_exists(id)",
			pass: true,
		},
		{
			name:   "Keywords are case-insensitive",
			expr:   "attribute_exists(id) and not attribute_exists(absent)",
			pass:   true,
		},
		{
			name:   "BETWEEN",
			expr:   "age BETWEEN :lo AND :hi",
			values: map[string]types.AttributeValue{":lo": n("30"), ":hi": n("40")},
			pass:   true,
		},
		{
			name:   "BETWEEN excludes out-of-range",
			expr:   "age BETWEEN :lo AND :hi",
			values: map[string]types.AttributeValue{":lo": n("40"), ":hi": n("50")},
			pass:   false,
		},
		{
			name:   "IN list",
			expr:   "id IN (:a, :b)",
			values: map[string]types.AttributeValue{":a": s("u2"), ":b": s("u1")},
			pass:   true,
		},
		{
			name:   "begins_with",
			expr:   "begins_with(email, :p)",
			values: map[string]types.AttributeValue{":p": s("ada@")},
			pass:   true,
		},
		{
			name:   "contains on string set",
			expr:   "contains(tags, :v)",
			values: map[string]types.AttributeValue{":v": s("staff")},
			pass:   true,
		},
		{
			name:   "Missing attribute makes comparisons false",
			expr:   "absent = :v",
			values: map[string]types.AttributeValue{":v": s("x")},
			pass:   false,
		},
		{
			name:    "Unsupported function",
			expr:    "size(id) > :v",
			values:  map[string]types.AttributeValue{":v": n("1")},
			wantErr: true,
		},
		{
			name:    "Document path is rejected",
			expr:    "nested.field = :v",
			values:  map[string]types.AttributeValue{":v": s("x")},
			wantErr: true,
		},
		{
			name:    "Trailing garbage",
			expr:    "attribute_exists(id) extra",
			wantErr: true,
		},
		{
			name:    "Unbalanced parenthesis",
			expr:    "(attribute_exists(id)",
			wantErr: true,
		},
		{
			name:    "Empty expression",
			expr:    "",
			wantErr: true,
		},
		{
			name:    "Wrong argument count",
			expr:    "begins_with(email)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				Expression: aws.String(tt.expr),
				Names:      tt.names,
				Values:     tt.values,
			}
			ok, err := Evaluate(in, item)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if err == nil && ok != tt.pass {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, ok, tt.pass)
			}
		})
	}
}
