package wire

import (
	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AttributeValue is the wire form of a single attribute value. Exactly one
// member is set; the member name is the type descriptor. Binary members are
// base64 encoded by encoding/json, matching what the SDK sends.
type AttributeValue struct {
	B    []byte                     `json:"B,omitempty"`
	BOOL *bool                      `json:"BOOL,omitempty"`
	BS   [][]byte                   `json:"BS,omitempty"`
	L    *[]AttributeValue          `json:"L,omitempty"`
	M    *map[string]AttributeValue `json:"M,omitempty"`
	N    *string                    `json:"N,omitempty"`
	NS   *[]string                  `json:"NS,omitempty"`
	NULL *bool                      `json:"NULL,omitempty"`
	S    *string                    `json:"S,omitempty"`
	SS   *[]string                  `json:"SS,omitempty"`
}

// --------------------------------------------------------------------------
// Encoding (SDK union -> wire)
// --------------------------------------------------------------------------

// EncodeValue converts an SDK attribute value union into its wire form.
func EncodeValue(av types.AttributeValue) AttributeValue {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return AttributeValue{S: aws.String(v.Value)}
	case *types.AttributeValueMemberN:
		return AttributeValue{N: aws.String(v.Value)}
	case *types.AttributeValueMemberB:
		return AttributeValue{B: v.Value}
	case *types.AttributeValueMemberSS:
		ss := v.Value
		return AttributeValue{SS: &ss}
	case *types.AttributeValueMemberNS:
		ns := v.Value
		return AttributeValue{NS: &ns}
	case *types.AttributeValueMemberBS:
		return AttributeValue{BS: v.Value}
	case *types.AttributeValueMemberBOOL:
		return AttributeValue{BOOL: aws.Bool(v.Value)}
	case *types.AttributeValueMemberNULL:
		return AttributeValue{NULL: aws.Bool(v.Value)}
	case *types.AttributeValueMemberL:
		list := make([]AttributeValue, len(v.Value))
		for i, elem := range v.Value {
			list[i] = EncodeValue(elem)
		}
		return AttributeValue{L: &list}
	case *types.AttributeValueMemberM:
		m := make(map[string]AttributeValue, len(v.Value))
		for name, elem := range v.Value {
			m[name] = EncodeValue(elem)
		}
		return AttributeValue{M: &m}
	default:
		// unreachable for values produced by this module
		return AttributeValue{NULL: aws.Bool(true)}
	}
}

// EncodeItem converts a full item into its wire form. A nil item encodes to
// nil so that the Item field is omitted from the response entirely.
func EncodeItem(item map[string]types.AttributeValue) map[string]AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]AttributeValue, len(item))
	for name, av := range item {
		out[name] = EncodeValue(av)
	}
	return out
}

// --------------------------------------------------------------------------
// Decoding (wire -> SDK union)
// --------------------------------------------------------------------------

// DecodeValue converts a wire attribute value into the SDK union. A value
// with zero or more than one member set is malformed.
func DecodeValue(av AttributeValue) (types.AttributeValue, error) {
	var (
		result types.AttributeValue
		count  int
	)

	if av.S != nil {
		result = &types.AttributeValueMemberS{Value: *av.S}
		count++
	}
	if av.N != nil {
		result = &types.AttributeValueMemberN{Value: *av.N}
		count++
	}
	if av.B != nil {
		result = &types.AttributeValueMemberB{Value: av.B}
		count++
	}
	if av.SS != nil {
		result = &types.AttributeValueMemberSS{Value: *av.SS}
		count++
	}
	if av.NS != nil {
		result = &types.AttributeValueMemberNS{Value: *av.NS}
		count++
	}
	if av.BS != nil {
		result = &types.AttributeValueMemberBS{Value: av.BS}
		count++
	}
	if av.BOOL != nil {
		result = &types.AttributeValueMemberBOOL{Value: *av.BOOL}
		count++
	}
	if av.NULL != nil {
		result = &types.AttributeValueMemberNULL{Value: *av.NULL}
		count++
	}
	if av.L != nil {
		list := make([]types.AttributeValue, len(*av.L))
		for i, elem := range *av.L {
			decoded, err := DecodeValue(elem)
			if err != nil {
				return nil, err
			}
			list[i] = decoded
		}
		result = &types.AttributeValueMemberL{Value: list}
		count++
	}
	if av.M != nil {
		m := make(map[string]types.AttributeValue, len(*av.M))
		for name, elem := range *av.M {
			decoded, err := DecodeValue(elem)
			if err != nil {
				return nil, err
			}
			m[name] = decoded
		}
		result = &types.AttributeValueMemberM{Value: m}
		count++
	}

	if count != 1 {
		return nil, ddb.NewValidationException("Supplied AttributeValue has more than one datatypes set, must contain exactly one of the supported datatypes")
	}
	return result, nil
}

// DecodeItem converts a wire item into the SDK form.
func DecodeItem(item map[string]AttributeValue) (map[string]types.AttributeValue, error) {
	if item == nil {
		return nil, nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for name, av := range item {
		decoded, err := DecodeValue(av)
		if err != nil {
			return nil, err
		}
		out[name] = decoded
	}
	return out, nil
}
