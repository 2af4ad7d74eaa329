package ddb

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --------------------------------------------------------------------------
// Structural Equality
// --------------------------------------------------------------------------

// Equal reports whether two attribute values are structurally equal.
// Equality is variant-sensitive: a string "1" is never equal to a number "1".
// Sets compare member-wise ignoring order, numbers compare by exact decimal
// value ("1.0" equals "1"), maps and lists compare recursively.
func Equal(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		cmp, ok := compareNumbers(av.Value, bv.Value)
		return ok && cmp == 0
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		return ok && bytes.Equal(av.Value, bv.Value)
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		bv, ok := b.(*types.AttributeValueMemberNULL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberSS:
		bv, ok := b.(*types.AttributeValueMemberSS)
		return ok && equalStringSets(av.Value, bv.Value)
	case *types.AttributeValueMemberNS:
		bv, ok := b.(*types.AttributeValueMemberNS)
		return ok && equalNumberSets(av.Value, bv.Value)
	case *types.AttributeValueMemberBS:
		bv, ok := b.(*types.AttributeValueMemberBS)
		return ok && equalBinarySets(av.Value, bv.Value)
	case *types.AttributeValueMemberL:
		bv, ok := b.(*types.AttributeValueMemberL)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for i := range av.Value {
			if !Equal(av.Value[i], bv.Value[i]) {
				return false
			}
		}
		return true
	case *types.AttributeValueMemberM:
		bv, ok := b.(*types.AttributeValueMemberM)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for k, v := range av.Value {
			other, ok := bv.Value[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		found := false
		for _, w := range b {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalNumberSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		found := false
		for _, w := range b {
			if cmp, ok := compareNumbers(v, w); ok && cmp == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalBinarySets(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		found := false
		for _, w := range b {
			if bytes.Equal(v, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Ordering
// --------------------------------------------------------------------------

// Compare orders two attribute values. Ordering is defined for the string
// variant (lexicographic byte order) and the number variant (exact decimal
// comparison) only; any other pairing - including mixed variants - reports
// ok=false.
func Compare(a, b types.AttributeValue) (cmp int, ok bool) {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, isS := b.(*types.AttributeValueMemberS)
		if !isS {
			return 0, false
		}
		return strings.Compare(av.Value, bv.Value), true
	case *types.AttributeValueMemberN:
		bv, isN := b.(*types.AttributeValueMemberN)
		if !isN {
			return 0, false
		}
		return compareNumbers(av.Value, bv.Value)
	default:
		return 0, false
	}
}

// compareNumbers compares two decimal strings without precision loss.
// Returns ok=false if either string is not a valid decimal number.
func compareNumbers(a, b string) (cmp int, ok bool) {
	ra, okA := new(big.Rat).SetString(a)
	rb, okB := new(big.Rat).SetString(b)
	if !okA || !okB {
		return 0, false
	}
	return ra.Cmp(rb), true
}

// --------------------------------------------------------------------------
// Validation
// --------------------------------------------------------------------------

// Validate checks the invariants of a single attribute value: sets must be
// non-empty and free of duplicate members, numbers must parse as decimals.
// Maps and lists are validated recursively.
func Validate(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		if _, ok := new(big.Rat).SetString(v.Value); !ok {
			return NewValidationException("numeric value %q is not a valid number", v.Value)
		}
	case *types.AttributeValueMemberSS:
		if len(v.Value) == 0 {
			return NewValidationException("string set must not be empty")
		}
		seen := make(map[string]struct{}, len(v.Value))
		for _, s := range v.Value {
			if _, dup := seen[s]; dup {
				return NewValidationException("string set contains duplicate value %q", s)
			}
			seen[s] = struct{}{}
		}
	case *types.AttributeValueMemberNS:
		if len(v.Value) == 0 {
			return NewValidationException("number set must not be empty")
		}
		for i, n := range v.Value {
			if _, ok := new(big.Rat).SetString(n); !ok {
				return NewValidationException("numeric value %q is not a valid number", n)
			}
			for _, m := range v.Value[i+1:] {
				if cmp, ok := compareNumbers(n, m); ok && cmp == 0 {
					return NewValidationException("number set contains duplicate value %q", n)
				}
			}
		}
	case *types.AttributeValueMemberBS:
		if len(v.Value) == 0 {
			return NewValidationException("binary set must not be empty")
		}
		for i, b := range v.Value {
			for _, c := range v.Value[i+1:] {
				if bytes.Equal(b, c) {
					return NewValidationException("binary set contains duplicate value")
				}
			}
		}
	case *types.AttributeValueMemberL:
		for _, elem := range v.Value {
			if err := Validate(elem); err != nil {
				return err
			}
		}
	case *types.AttributeValueMemberM:
		for _, elem := range v.Value {
			if err := Validate(elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateItem validates every attribute value of an item.
func ValidateItem(item map[string]types.AttributeValue) error {
	for name, av := range item {
		if av == nil {
			return NewValidationException("attribute %q has no value", name)
		}
		if err := Validate(av); err != nil {
			return err
		}
	}
	return nil
}
