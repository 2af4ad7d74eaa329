package condition

import (
	"strings"

	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --------------------------------------------------------------------------
// Input
// --------------------------------------------------------------------------

// Input carries the two mutually exclusive condition shapes a write request
// may supply: the legacy Expected map or a condition expression string with
// its substitution tables.
type Input struct {
	Expected            map[string]types.ExpectedAttributeValue
	ConditionalOperator types.ConditionalOperator
	Expression          *string
	Names               map[string]string
	Values              map[string]types.AttributeValue
}

// IsZero reports whether no condition was supplied at all.
func (in Input) IsZero() bool {
	return len(in.Expected) == 0 && in.Expression == nil
}

// --------------------------------------------------------------------------
// Evaluation
// --------------------------------------------------------------------------

// Evaluate checks the condition against the candidate item (nil means the
// item does not exist). Absence of a condition always passes. A returned
// error is always a *ddb.ValidationException describing a malformed
// condition; a failed but well-formed condition returns (false, nil).
func Evaluate(in Input, item map[string]types.AttributeValue) (bool, error) {
	if in.IsZero() {
		return true, nil
	}
	if len(in.Expected) > 0 && in.Expression != nil {
		return false, ddb.NewValidationException("Expected and ConditionExpression are mutually exclusive")
	}

	if in.Expression != nil {
		node, err := parse(*in.Expression)
		if err != nil {
			return false, err
		}
		return node.eval(&evalEnv{item: item, names: in.Names, values: in.Values})
	}

	return evaluateExpected(in.Expected, in.ConditionalOperator, item)
}

// evaluateExpected combines the per-attribute legacy conditions with the
// conditional operator (AND unless OR is requested).
func evaluateExpected(expected map[string]types.ExpectedAttributeValue, op types.ConditionalOperator, item map[string]types.AttributeValue) (bool, error) {
	useOr := op == types.ConditionalOperatorOr

	result := !useOr
	for name, cond := range expected {
		ok, err := evaluateExpectedAttr(name, cond, item)
		if err != nil {
			return false, err
		}
		if useOr {
			result = result || ok
		} else {
			result = result && ok
		}
	}
	return result, nil
}

// evaluateExpectedAttr checks one legacy expected-value descriptor.
func evaluateExpectedAttr(name string, cond types.ExpectedAttributeValue, item map[string]types.AttributeValue) (bool, error) {
	current, exists := item[name]

	// Exists / Value shape
	if cond.ComparisonOperator == "" {
		if cond.Exists != nil && !*cond.Exists {
			if cond.Value != nil {
				return false, ddb.NewValidationException("attribute %q: cannot combine Exists=false with a Value", name)
			}
			return !exists, nil
		}
		// Exists=true or unset both require a Value to compare against.
		if cond.Value == nil {
			return false, ddb.NewValidationException("attribute %q: expected condition needs a Value or a ComparisonOperator", name)
		}
		return exists && ddb.Equal(current, cond.Value), nil
	}

	// ComparisonOperator shape
	if cond.Value != nil || cond.Exists != nil {
		return false, ddb.NewValidationException("attribute %q: ComparisonOperator cannot be combined with Value or Exists", name)
	}
	return applyOperator(name, cond.ComparisonOperator, cond.AttributeValueList, current, exists)
}

// applyOperator implements the named legacy comparison operators. An absent
// attribute satisfies only NULL; every value comparison on it fails.
func applyOperator(name string, op types.ComparisonOperator, operands []types.AttributeValue, current types.AttributeValue, exists bool) (bool, error) {
	switch op {
	case types.ComparisonOperatorNull:
		return !exists, nil
	case types.ComparisonOperatorNotNull:
		return exists, nil
	}

	if !exists {
		return false, nil
	}

	switch op {
	case types.ComparisonOperatorEq:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		return ddb.Equal(current, operands[0]), nil
	case types.ComparisonOperatorNe:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		return !ddb.Equal(current, operands[0]), nil
	case types.ComparisonOperatorLt, types.ComparisonOperatorLe, types.ComparisonOperatorGt, types.ComparisonOperatorGe:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		cmp, ok := ddb.Compare(current, operands[0])
		if !ok {
			return false, nil
		}
		switch op {
		case types.ComparisonOperatorLt:
			return cmp < 0, nil
		case types.ComparisonOperatorLe:
			return cmp <= 0, nil
		case types.ComparisonOperatorGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	case types.ComparisonOperatorBetween:
		if err := requireOperandCount(name, op, operands, 2); err != nil {
			return false, err
		}
		low, okLow := ddb.Compare(current, operands[0])
		high, okHigh := ddb.Compare(current, operands[1])
		return okLow && okHigh && low >= 0 && high <= 0, nil
	case types.ComparisonOperatorIn:
		if len(operands) == 0 {
			return false, ddb.NewValidationException("attribute %q: IN needs at least one operand", name)
		}
		for _, candidate := range operands {
			if ddb.Equal(current, candidate) {
				return true, nil
			}
		}
		return false, nil
	case types.ComparisonOperatorBeginsWith:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		return beginsWith(current, operands[0]), nil
	case types.ComparisonOperatorContains:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		return contains(current, operands[0]), nil
	case types.ComparisonOperatorNotContains:
		if err := requireOperandCount(name, op, operands, 1); err != nil {
			return false, err
		}
		return !contains(current, operands[0]), nil
	default:
		return false, ddb.NewValidationException("attribute %q: unsupported comparison operator %q", name, op)
	}
}

func requireOperandCount(name string, op types.ComparisonOperator, operands []types.AttributeValue, want int) error {
	if len(operands) != want {
		return ddb.NewValidationException("attribute %q: operator %s needs %d operand(s), got %d", name, op, want, len(operands))
	}
	return nil
}

// --------------------------------------------------------------------------
// Shared predicate helpers (legacy operators and expression functions)
// --------------------------------------------------------------------------

// beginsWith implements prefix matching for string and binary values.
func beginsWith(current, prefix types.AttributeValue) bool {
	switch v := current.(type) {
	case *types.AttributeValueMemberS:
		p, ok := prefix.(*types.AttributeValueMemberS)
		return ok && strings.HasPrefix(v.Value, p.Value)
	case *types.AttributeValueMemberB:
		p, ok := prefix.(*types.AttributeValueMemberB)
		return ok && len(v.Value) >= len(p.Value) && string(v.Value[:len(p.Value)]) == string(p.Value)
	default:
		return false
	}
}

// contains implements substring matching on strings and membership on sets
// and lists.
func contains(current, operand types.AttributeValue) bool {
	switch v := current.(type) {
	case *types.AttributeValueMemberS:
		o, ok := operand.(*types.AttributeValueMemberS)
		return ok && strings.Contains(v.Value, o.Value)
	case *types.AttributeValueMemberSS:
		o, ok := operand.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		for _, member := range v.Value {
			if member == o.Value {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberNS:
		o, ok := operand.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		for _, member := range v.Value {
			if ddb.Equal(&types.AttributeValueMemberN{Value: member}, o) {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberBS:
		o, ok := operand.(*types.AttributeValueMemberB)
		if !ok {
			return false
		}
		for _, member := range v.Value {
			if ddb.Equal(&types.AttributeValueMemberB{Value: member}, o) {
				return true
			}
		}
		return false
	case *types.AttributeValueMemberL:
		for _, member := range v.Value {
			if ddb.Equal(member, operand) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
