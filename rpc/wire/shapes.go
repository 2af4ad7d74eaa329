package wire

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --------------------------------------------------------------------------
// Shared sub-shapes
// --------------------------------------------------------------------------

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName"`
	KeyType       string `json:"KeyType"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName"`
	AttributeType string `json:"AttributeType"`
}

type ExpectedAttributeValue struct {
	AttributeValueList []AttributeValue `json:"AttributeValueList,omitempty"`
	ComparisonOperator *string          `json:"ComparisonOperator,omitempty"`
	Exists             *bool            `json:"Exists,omitempty"`
	Value              *AttributeValue  `json:"Value,omitempty"`
}

func decodeExpected(expected map[string]ExpectedAttributeValue) (map[string]types.ExpectedAttributeValue, error) {
	if expected == nil {
		return nil, nil
	}
	out := make(map[string]types.ExpectedAttributeValue, len(expected))
	for name, e := range expected {
		decoded := types.ExpectedAttributeValue{Exists: e.Exists}
		if e.ComparisonOperator != nil {
			decoded.ComparisonOperator = types.ComparisonOperator(*e.ComparisonOperator)
		}
		if e.Value != nil {
			value, err := DecodeValue(*e.Value)
			if err != nil {
				return nil, err
			}
			decoded.Value = value
		}
		for _, av := range e.AttributeValueList {
			value, err := DecodeValue(av)
			if err != nil {
				return nil, err
			}
			decoded.AttributeValueList = append(decoded.AttributeValueList, value)
		}
		out[name] = decoded
	}
	return out, nil
}

// --------------------------------------------------------------------------
// GetItem
// --------------------------------------------------------------------------

type GetItemRequest struct {
	TableName                string                    `json:"TableName"`
	Key                      map[string]AttributeValue `json:"Key"`
	AttributesToGet          []string                  `json:"AttributesToGet,omitempty"`
	ProjectionExpression     *string                   `json:"ProjectionExpression,omitempty"`
	ExpressionAttributeNames map[string]string         `json:"ExpressionAttributeNames,omitempty"`
	ConsistentRead           *bool                     `json:"ConsistentRead,omitempty"`
}

// Input converts the wire request into the SDK input the backend consumes.
func (r *GetItemRequest) Input() (*dynamodb.GetItemInput, error) {
	key, err := DecodeItem(r.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemInput{
		TableName:                aws.String(r.TableName),
		Key:                      key,
		AttributesToGet:          r.AttributesToGet,
		ProjectionExpression:     r.ProjectionExpression,
		ExpressionAttributeNames: r.ExpressionAttributeNames,
		ConsistentRead:           r.ConsistentRead,
	}, nil
}

type GetItemResponse struct {
	Item map[string]AttributeValue `json:"Item,omitempty"`
}

// --------------------------------------------------------------------------
// PutItem
// --------------------------------------------------------------------------

type PutItemRequest struct {
	TableName                 string                            `json:"TableName"`
	Item                      map[string]AttributeValue         `json:"Item"`
	ConditionExpression       *string                           `json:"ConditionExpression,omitempty"`
	ExpressionAttributeNames  map[string]string                 `json:"ExpressionAttributeNames,omitempty"`
	ExpressionAttributeValues map[string]AttributeValue         `json:"ExpressionAttributeValues,omitempty"`
	Expected                  map[string]ExpectedAttributeValue `json:"Expected,omitempty"`
	ConditionalOperator       *string                           `json:"ConditionalOperator,omitempty"`
	ReturnValues              *string                           `json:"ReturnValues,omitempty"`
}

func (r *PutItemRequest) Input() (*dynamodb.PutItemInput, error) {
	item, err := DecodeItem(r.Item)
	if err != nil {
		return nil, err
	}
	values, err := DecodeItem(r.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	expected, err := decodeExpected(r.Expected)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.PutItemInput{
		TableName:                 aws.String(r.TableName),
		Item:                      item,
		ConditionExpression:       r.ConditionExpression,
		ExpressionAttributeNames:  r.ExpressionAttributeNames,
		ExpressionAttributeValues: values,
		Expected:                  expected,
	}
	if r.ConditionalOperator != nil {
		input.ConditionalOperator = types.ConditionalOperator(*r.ConditionalOperator)
	}
	if r.ReturnValues != nil {
		input.ReturnValues = types.ReturnValue(*r.ReturnValues)
	}
	return input, nil
}

type PutItemResponse struct {
	Attributes map[string]AttributeValue `json:"Attributes,omitempty"`
}

// --------------------------------------------------------------------------
// DeleteItem
// --------------------------------------------------------------------------

type DeleteItemRequest struct {
	TableName                 string                            `json:"TableName"`
	Key                       map[string]AttributeValue         `json:"Key"`
	ConditionExpression       *string                           `json:"ConditionExpression,omitempty"`
	ExpressionAttributeNames  map[string]string                 `json:"ExpressionAttributeNames,omitempty"`
	ExpressionAttributeValues map[string]AttributeValue         `json:"ExpressionAttributeValues,omitempty"`
	Expected                  map[string]ExpectedAttributeValue `json:"Expected,omitempty"`
	ConditionalOperator       *string                           `json:"ConditionalOperator,omitempty"`
	ReturnValues              *string                           `json:"ReturnValues,omitempty"`
}

func (r *DeleteItemRequest) Input() (*dynamodb.DeleteItemInput, error) {
	key, err := DecodeItem(r.Key)
	if err != nil {
		return nil, err
	}
	values, err := DecodeItem(r.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	expected, err := decodeExpected(r.Expected)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.TableName),
		Key:                       key,
		ConditionExpression:       r.ConditionExpression,
		ExpressionAttributeNames:  r.ExpressionAttributeNames,
		ExpressionAttributeValues: values,
		Expected:                  expected,
	}
	if r.ConditionalOperator != nil {
		input.ConditionalOperator = types.ConditionalOperator(*r.ConditionalOperator)
	}
	if r.ReturnValues != nil {
		input.ReturnValues = types.ReturnValue(*r.ReturnValues)
	}
	return input, nil
}

type DeleteItemResponse struct {
	Attributes map[string]AttributeValue `json:"Attributes,omitempty"`
}

// --------------------------------------------------------------------------
// CreateTable / DescribeTable / ListTables
// --------------------------------------------------------------------------

type CreateTableRequest struct {
	TableName            string                `json:"TableName"`
	AttributeDefinitions []AttributeDefinition `json:"AttributeDefinitions,omitempty"`
	KeySchema            []KeySchemaElement    `json:"KeySchema,omitempty"`
}

func (r *CreateTableRequest) Input() (*dynamodb.CreateTableInput, error) {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(r.TableName),
	}
	for _, def := range r.AttributeDefinitions {
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(def.AttributeName),
			AttributeType: types.ScalarAttributeType(def.AttributeType),
		})
	}
	for _, elem := range r.KeySchema {
		input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(elem.AttributeName),
			KeyType:       types.KeyType(elem.KeyType),
		})
	}
	return input, nil
}

type CreateTableResponse struct {
	TableDescription *TableDescription `json:"TableDescription,omitempty"`
}

type DescribeTableRequest struct {
	TableName string `json:"TableName"`
}

func (r *DescribeTableRequest) Input() (*dynamodb.DescribeTableInput, error) {
	return &dynamodb.DescribeTableInput{TableName: aws.String(r.TableName)}, nil
}

type DescribeTableResponse struct {
	Table *TableDescription `json:"Table,omitempty"`
}

type ListTablesRequest struct {
	ExclusiveStartTableName *string `json:"ExclusiveStartTableName,omitempty"`
	Limit                   *int32  `json:"Limit,omitempty"`
}

func (r *ListTablesRequest) Input() (*dynamodb.ListTablesInput, error) {
	return &dynamodb.ListTablesInput{
		ExclusiveStartTableName: r.ExclusiveStartTableName,
		Limit:                   r.Limit,
	}, nil
}

type ListTablesResponse struct {
	TableNames             []string `json:"TableNames"`
	LastEvaluatedTableName *string  `json:"LastEvaluatedTableName,omitempty"`
}

// --------------------------------------------------------------------------
// Table description
// --------------------------------------------------------------------------

// TableDescription mirrors the SDK table description. CreationDateTime is
// epoch seconds, the timestamp format the SDK deserializer expects.
type TableDescription struct {
	TableName            *string               `json:"TableName,omitempty"`
	TableStatus          *string               `json:"TableStatus,omitempty"`
	KeySchema            []KeySchemaElement    `json:"KeySchema,omitempty"`
	AttributeDefinitions []AttributeDefinition `json:"AttributeDefinitions,omitempty"`
	CreationDateTime     *float64              `json:"CreationDateTime,omitempty"`
	ItemCount            *int64                `json:"ItemCount,omitempty"`
}

// EncodeTableDescription converts the SDK table description into the wire
// form. A nil description encodes to nil.
func EncodeTableDescription(desc *types.TableDescription) *TableDescription {
	if desc == nil {
		return nil
	}
	out := &TableDescription{
		TableName: desc.TableName,
		ItemCount: desc.ItemCount,
	}
	if desc.TableStatus != "" {
		out.TableStatus = aws.String(string(desc.TableStatus))
	}
	if desc.CreationDateTime != nil {
		seconds := float64(desc.CreationDateTime.UnixNano()) / float64(time.Second)
		out.CreationDateTime = &seconds
	}
	for _, elem := range desc.KeySchema {
		out.KeySchema = append(out.KeySchema, KeySchemaElement{
			AttributeName: aws.ToString(elem.AttributeName),
			KeyType:       string(elem.KeyType),
		})
	}
	for _, def := range desc.AttributeDefinitions {
		out.AttributeDefinitions = append(out.AttributeDefinitions, AttributeDefinition{
			AttributeName: aws.ToString(def.AttributeName),
			AttributeType: string(def.AttributeType),
		})
	}
	return out
}
