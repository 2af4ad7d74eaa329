package ddb

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --------------------------------------------------------------------------
// Key Schema
// --------------------------------------------------------------------------

// KeySchema is the immutable primary-key definition of one table: one
// partition key element, optionally followed by one sort key element, plus
// the declared scalar type of each key attribute.
type KeySchema struct {
	Elements  []types.KeySchemaElement
	AttrTypes map[string]types.ScalarAttributeType
}

// NewKeySchema validates and builds a KeySchema from a CreateTable request's
// key schema and attribute definitions.
func NewKeySchema(elements []types.KeySchemaElement, definitions []types.AttributeDefinition) (*KeySchema, error) {
	if len(elements) == 0 {
		return nil, NewValidationException("key schema must contain a partition key")
	}
	if len(elements) > 2 {
		return nil, NewValidationException("key schema must contain at most two elements, got %d", len(elements))
	}
	if elements[0].KeyType != types.KeyTypeHash {
		return nil, NewValidationException("the first key schema element must be of type HASH")
	}
	if len(elements) == 2 && elements[1].KeyType != types.KeyTypeRange {
		return nil, NewValidationException("the second key schema element must be of type RANGE")
	}

	declared := make(map[string]types.ScalarAttributeType, len(definitions))
	for _, def := range definitions {
		name := aws.ToString(def.AttributeName)
		switch def.AttributeType {
		case types.ScalarAttributeTypeS, types.ScalarAttributeTypeN, types.ScalarAttributeTypeB:
		default:
			return nil, NewValidationException("attribute %q has invalid scalar type %q", name, def.AttributeType)
		}
		declared[name] = def.AttributeType
	}

	attrTypes := make(map[string]types.ScalarAttributeType, len(elements))
	for _, elem := range elements {
		name := aws.ToString(elem.AttributeName)
		if name == "" {
			return nil, NewValidationException("key schema element has no attribute name")
		}
		scalarType, ok := declared[name]
		if !ok {
			return nil, NewValidationException("key attribute %q not found in attribute definitions", name)
		}
		if _, dup := attrTypes[name]; dup {
			return nil, NewValidationException("key attribute %q appears twice in key schema", name)
		}
		attrTypes[name] = scalarType
	}

	return &KeySchema{Elements: elements, AttrTypes: attrTypes}, nil
}

// AttributeNames returns the key attribute names in schema order.
func (s *KeySchema) AttributeNames() []string {
	names := make([]string, len(s.Elements))
	for i, elem := range s.Elements {
		names[i] = aws.ToString(elem.AttributeName)
	}
	return names
}

// --------------------------------------------------------------------------
// Composite Key Encoding
// --------------------------------------------------------------------------

// CompositeKey projects an item (or a key map) onto the key schema and
// returns an injective string encoding of the projection. Every key
// attribute must be present with a value of its declared scalar type.
//
// The encoding is a concatenation of one segment per key element:
// a one-byte type tag, the decimal length of the raw value, a colon, then
// the raw value. Length-prefixing keeps the encoding injective regardless
// of the bytes a key value may contain.
func (s *KeySchema) CompositeKey(item map[string]types.AttributeValue) (string, error) {
	var sb strings.Builder
	for _, name := range s.AttributeNames() {
		av, ok := item[name]
		if !ok {
			return "", NewValidationException("missing key attribute %q", name)
		}

		var tag byte
		var raw string
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			tag, raw = 'S', v.Value
		case *types.AttributeValueMemberN:
			tag, raw = 'N', v.Value
		case *types.AttributeValueMemberB:
			tag, raw = 'B', string(v.Value)
		default:
			return "", NewValidationException("key attribute %q must be of scalar type S, N or B", name)
		}
		if want := s.AttrTypes[name]; string(want) != string(tag) {
			return "", NewValidationException("key attribute %q has type %c, schema declares %s", name, tag, want)
		}

		fmt.Fprintf(&sb, "%c%d:%s", tag, len(raw), raw)
	}
	return sb.String(), nil
}

// ValidateTableName checks the DynamoDB table-name rules: 3 to 255
// characters from [a-zA-Z0-9_.-].
func ValidateTableName(name string) error {
	if len(name) < 3 || len(name) > 255 {
		return NewValidationException("table name must be between 3 and 255 characters, got %d", len(name))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.', c == '-':
		default:
			return NewValidationException("table name contains invalid character %q", string(c))
		}
	}
	return nil
}

// ValidateKey checks that a key map contains exactly the schema's key
// attributes, no more and no less, with matching declared types.
func (s *KeySchema) ValidateKey(key map[string]types.AttributeValue) error {
	if len(key) != len(s.Elements) {
		return NewValidationException("key must contain exactly %d attribute(s), got %d", len(s.Elements), len(key))
	}
	_, err := s.CompositeKey(key)
	return err
}
