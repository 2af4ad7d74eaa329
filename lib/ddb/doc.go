// Package ddb implements the value semantics of the DynamoDB data model on
// top of the SDK's generated attribute-value union (types.AttributeValue).
//
// The package focuses on:
//   - Structural, variant-sensitive equality and ordering of attribute
//     values (Equal, Compare). Ordering is defined only for the string and
//     number variants, matching what conditional writes require.
//   - Value invariants (Validate, ValidateItem): non-empty sets without
//     duplicate members, parseable decimal numbers.
//   - Primary keys (KeySchema): the immutable per-table key definition and
//     the injective composite-key encoding used as the storage slot of an
//     item.
//
// Wire encoding and decoding of attribute values is not handled here; that
// is the responsibility of the SDK's generated codec on the client side and
// of the rpc/wire package on the server side.
package ddb
