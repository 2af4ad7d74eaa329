// Package condition evaluates conditional-write predicates against a
// candidate item.
//
// Two mutually exclusive input shapes are supported, mirroring the DynamoDB
// API: the legacy Expected map (per-attribute expected-value descriptors
// combined with AND or OR) and a ConditionExpression string with #name and
// :value placeholder substitution. The expression grammar is documented in
// expr.go; richer forms such as size() or document paths are rejected with
// a ValidationException rather than silently misread.
//
// Evaluation policy: the absence of any condition passes; an attribute that
// does not exist on the candidate item satisfies only the "not exists" /
// NULL style predicates and fails every value comparison; AND and OR
// short-circuit.
package condition
