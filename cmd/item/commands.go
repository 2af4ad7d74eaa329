package item

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/lDDB/cmd/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [table] [item]",
		Short: "Stores an item given as a JSON object",
		Long:  `Stores an item given as a plain JSON object (e.g. '{"id": "u1", "name": "Ada"}'). A condition expression can be supplied with --condition, its value substitutions with --values as a second JSON object.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseJSONItem(args[1])
			if err != nil {
				return err
			}

			input := &dynamodb.PutItemInput{
				TableName: aws.String(args[0]),
				Item:      item,
			}
			if err := applyConditionFlags(cmd, &input.ConditionExpression, &input.ExpressionAttributeValues); err != nil {
				return err
			}
			if returnOld, _ := cmd.Flags().GetBool("return-old"); returnOld {
				input.ReturnValues = types.ReturnValueAllOld
			}

			out, err := ddbClient.PutItem(cmd.Context(), input)
			if err != nil {
				return err
			}
			if out.Attributes != nil {
				return printItem(out.Attributes)
			}
			fmt.Println("put successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [table] [key]",
		Short: "Reads an item by its full primary key",
		Long:  `Reads an item by its full primary key, given as a plain JSON object (e.g. '{"id": "u1"}').`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseJSONItem(args[1])
			if err != nil {
				return err
			}

			input := &dynamodb.GetItemInput{
				TableName: aws.String(args[0]),
				Key:       key,
			}
			if projection, _ := cmd.Flags().GetString("projection"); projection != "" {
				input.ProjectionExpression = aws.String(projection)
			}

			out, err := ddbClient.GetItem(cmd.Context(), input)
			if err != nil {
				return err
			}
			if out.Item == nil {
				fmt.Println("not found")
				return nil
			}
			return printItem(out.Item)
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [table] [key]",
		Short: "Deletes an item by its full primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseJSONItem(args[1])
			if err != nil {
				return err
			}

			input := &dynamodb.DeleteItemInput{
				TableName: aws.String(args[0]),
				Key:       key,
			}
			if err := applyConditionFlags(cmd, &input.ConditionExpression, &input.ExpressionAttributeValues); err != nil {
				return err
			}
			if returnOld, _ := cmd.Flags().GetBool("return-old"); returnOld {
				input.ReturnValues = types.ReturnValueAllOld
			}

			out, err := ddbClient.DeleteItem(cmd.Context(), input)
			if err != nil {
				return err
			}
			if out.Attributes != nil {
				return printItem(out.Attributes)
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
)

func init() {
	for _, cmd := range []*cobra.Command{putCmd, deleteCmd} {
		cmd.Flags().String("condition", "", util.WrapString("Condition expression the write must satisfy (e.g. 'attribute_not_exists(id)')"))
		cmd.Flags().String("values", "", util.WrapString("Value substitutions for the condition expression as a JSON object (e.g. '{\":v\": 1}')"))
		cmd.Flags().Bool("return-old", false, util.WrapString("Print the previous item instead of a confirmation"))
	}
	getCmd.Flags().String("projection", "", util.WrapString("Comma-separated list of attributes to return"))
}

// parseJSONItem converts a plain JSON object into attribute values
func parseJSONItem(arg string) (map[string]types.AttributeValue, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(arg), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return attributevalue.MarshalMap(data)
}

// applyConditionFlags reads the --condition and --values flags into an input
func applyConditionFlags(cmd *cobra.Command, expr **string, values *map[string]types.AttributeValue) error {
	condition, _ := cmd.Flags().GetString("condition")
	if condition == "" {
		return nil
	}
	*expr = aws.String(condition)

	if raw, _ := cmd.Flags().GetString("values"); raw != "" {
		substitutions, err := parseJSONItem(raw)
		if err != nil {
			return err
		}
		*values = substitutions
	}
	return nil
}

// printItem prints an item as indented plain JSON
func printItem(item map[string]types.AttributeValue) error {
	var data map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &data); err != nil {
		return err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
