package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/lDDB/lib/backend"
	"github.com/ValentinKolb/lDDB/lib/condition"
	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/puzpuzpuz/xsync/v3"
)

// backendImpl is the built-in in-memory backend. The table registry is an
// instance field, never a process global; two instances share nothing.
type backendImpl struct {
	tables *xsync.MapOf[string, *tableStore]
}

// NewBackend creates an empty in-memory backend.
func NewBackend() backend.IBackend {
	return &backendImpl{
		tables: xsync.NewMapOf[string, *tableStore](),
	}
}

// tableStore owns one table: the immutable key schema and the item map,
// keyed by the composite-key encoding of each item's primary key.
//
// Thread-safety: mu guards items. The condition check and the mutation of a
// conditional write run under mu as a single critical section, so no other
// operation can observe or modify a key between check and write. Operations
// on different tables never contend.
type tableStore struct {
	name        string
	schema      *ddb.KeySchema
	definitions []types.AttributeDefinition
	createdAt   time.Time

	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

// --------------------------------------------------------------------------
// Table Operations
// --------------------------------------------------------------------------

func (b *backendImpl) CreateTable(_ context.Context, input *dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error) {
	name := aws.ToString(input.TableName)
	if err := ddb.ValidateTableName(name); err != nil {
		return nil, err
	}

	schema, err := ddb.NewKeySchema(input.KeySchema, input.AttributeDefinitions)
	if err != nil {
		return nil, err
	}

	table := &tableStore{
		name:        name,
		schema:      schema,
		definitions: input.AttributeDefinitions,
		createdAt:   time.Now(),
		items:       map[string]map[string]types.AttributeValue{},
	}

	// LoadOrStore makes creation atomic: exactly one creator wins
	if _, loaded := b.tables.LoadOrStore(name, table); loaded {
		return nil, &types.ResourceInUseException{
			Message: aws.String(fmt.Sprintf("Table %s already exists", name)),
		}
	}

	return &dynamodb.CreateTableOutput{TableDescription: table.describe()}, nil
}

func (b *backendImpl) DescribeTable(_ context.Context, input *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
	table, err := b.table(aws.ToString(input.TableName))
	if err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{Table: table.describe()}, nil
}

func (b *backendImpl) ListTables(_ context.Context, input *dynamodb.ListTablesInput) (*dynamodb.ListTablesOutput, error) {
	var names []string
	b.tables.Range(func(name string, _ *tableStore) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)

	// resume after the start table, if one was given
	if start := aws.ToString(input.ExclusiveStartTableName); start != "" {
		idx := sort.SearchStrings(names, start)
		if idx < len(names) && names[idx] == start {
			idx++
		}
		names = names[idx:]
	}

	output := &dynamodb.ListTablesOutput{TableNames: names}
	if limit := aws.ToInt32(input.Limit); limit > 0 && int(limit) < len(names) {
		output.TableNames = names[:limit]
		output.LastEvaluatedTableName = aws.String(names[limit-1])
	}
	return output, nil
}

// --------------------------------------------------------------------------
// Item Operations
// --------------------------------------------------------------------------

func (b *backendImpl) GetItem(_ context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	table, err := b.table(aws.ToString(input.TableName))
	if err != nil {
		return nil, err
	}

	if err := table.schema.ValidateKey(input.Key); err != nil {
		return nil, err
	}
	key, err := table.schema.CompositeKey(input.Key)
	if err != nil {
		return nil, err
	}

	projection, err := buildProjection(input)
	if err != nil {
		return nil, err
	}

	table.mu.Lock()
	item, ok := table.items[key]
	table.mu.Unlock()

	if !ok {
		// a missing item is an empty result, not an error
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: projectItem(cloneItem(item), projection)}, nil
}

func (b *backendImpl) PutItem(_ context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	table, err := b.table(aws.ToString(input.TableName))
	if err != nil {
		return nil, err
	}

	if err := ddb.ValidateItem(input.Item); err != nil {
		return nil, err
	}
	key, err := table.schema.CompositeKey(input.Item)
	if err != nil {
		return nil, err
	}

	returnOld, err := parseReturnValues(input.ReturnValues)
	if err != nil {
		return nil, err
	}

	cond := condition.Input{
		Expected:            input.Expected,
		ConditionalOperator: input.ConditionalOperator,
		Expression:          input.ConditionExpression,
		Names:               input.ExpressionAttributeNames,
		Values:              input.ExpressionAttributeValues,
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	previous, existed := table.items[key]
	ok, err := condition.Evaluate(cond, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionalCheckFailed(previous)
	}

	table.items[key] = cloneItem(input.Item)

	output := &dynamodb.PutItemOutput{}
	if returnOld && existed {
		output.Attributes = cloneItem(previous)
	}
	return output, nil
}

func (b *backendImpl) DeleteItem(_ context.Context, input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	table, err := b.table(aws.ToString(input.TableName))
	if err != nil {
		return nil, err
	}

	if err := table.schema.ValidateKey(input.Key); err != nil {
		return nil, err
	}
	key, err := table.schema.CompositeKey(input.Key)
	if err != nil {
		return nil, err
	}

	returnOld, err := parseReturnValues(input.ReturnValues)
	if err != nil {
		return nil, err
	}

	cond := condition.Input{
		Expected:            input.Expected,
		ConditionalOperator: input.ConditionalOperator,
		Expression:          input.ConditionExpression,
		Names:               input.ExpressionAttributeNames,
		Values:              input.ExpressionAttributeValues,
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	previous, existed := table.items[key]
	ok, err := condition.Evaluate(cond, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionalCheckFailed(previous)
	}

	delete(table.items, key)

	output := &dynamodb.DeleteItemOutput{}
	if returnOld && existed {
		output.Attributes = cloneItem(previous)
	}
	return output, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// table resolves a table name through the registry.
func (b *backendImpl) table(name string) (*tableStore, error) {
	table, ok := b.tables.Load(name)
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Table: %s not found", name)),
		}
	}
	return table, nil
}

// describe builds a table description snapshot.
func (t *tableStore) describe() *types.TableDescription {
	t.mu.Lock()
	count := int64(len(t.items))
	t.mu.Unlock()

	return &types.TableDescription{
		TableName:            aws.String(t.name),
		KeySchema:            t.schema.Elements,
		AttributeDefinitions: t.definitions,
		TableStatus:          types.TableStatusActive,
		CreationDateTime:     aws.Time(t.createdAt),
		ItemCount:            aws.Int64(count),
	}
}

// conditionalCheckFailed builds the one error variant that carries payload
// data: the conflicting pre-write item, if there was one.
func conditionalCheckFailed(previous map[string]types.AttributeValue) error {
	err := &types.ConditionalCheckFailedException{
		Message: aws.String("The conditional request failed"),
	}
	if previous != nil {
		err.Item = cloneItem(previous)
	}
	return err
}

// parseReturnValues accepts only the subset of ReturnValues that PutItem and
// DeleteItem support.
func parseReturnValues(rv types.ReturnValue) (returnOld bool, err error) {
	switch rv {
	case "", types.ReturnValueNone:
		return false, nil
	case types.ReturnValueAllOld:
		return true, nil
	default:
		return false, ddb.NewValidationException("unsupported ReturnValues %q", rv)
	}
}

// cloneItem copies the attribute map so callers and the store never alias
// each other's maps. Attribute values themselves are treated as immutable.
func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	clone := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		clone[k] = v
	}
	return clone
}

// --------------------------------------------------------------------------
// Projection
// --------------------------------------------------------------------------

// buildProjection resolves the optional attribute projection of a GetItem
// request into a set of attribute names. A nil return means "all
// attributes".
func buildProjection(input *dynamodb.GetItemInput) (map[string]struct{}, error) {
	if len(input.AttributesToGet) > 0 && input.ProjectionExpression != nil {
		return nil, ddb.NewValidationException("AttributesToGet and ProjectionExpression are mutually exclusive")
	}

	if len(input.AttributesToGet) > 0 {
		names := make(map[string]struct{}, len(input.AttributesToGet))
		for _, name := range input.AttributesToGet {
			names[name] = struct{}{}
		}
		return names, nil
	}

	if input.ProjectionExpression == nil {
		return nil, nil
	}

	names := map[string]struct{}{}
	for _, part := range strings.Split(*input.ProjectionExpression, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, ddb.NewValidationException("projection expression contains an empty path")
		}
		if strings.HasPrefix(name, "#") {
			resolved, ok := input.ExpressionAttributeNames[name]
			if !ok {
				return nil, ddb.NewValidationException("projection expression: undefined name reference %s", name)
			}
			name = resolved
		}
		if strings.ContainsAny(name, ".[] ") {
			return nil, ddb.NewValidationException("projection expression: document paths are not supported (%q)", name)
		}
		names[name] = struct{}{}
	}
	return names, nil
}

// projectItem narrows an item to the projected attribute names. Names that
// do not exist on the item are silently ignored.
func projectItem(item map[string]types.AttributeValue, projection map[string]struct{}) map[string]types.AttributeValue {
	if projection == nil {
		return item
	}
	result := make(map[string]types.AttributeValue, len(projection))
	for name := range projection {
		if v, ok := item[name]; ok {
			result[name] = v
		}
	}
	return result
}
