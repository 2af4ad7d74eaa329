package table

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ValentinKolb/lDDB/cmd/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [name] [partition-key]",
		Short: "Creates a new table",
		Long:  `Creates a new table. The partition key is given as name:type where type is one of S, N or B (e.g. "id:S"). An optional sort key can be added with --sort-key.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			hashName, hashType, err := parseKeySpec(args[1])
			if err != nil {
				return err
			}

			input := &dynamodb.CreateTableInput{
				TableName: aws.String(name),
				AttributeDefinitions: []types.AttributeDefinition{
					{AttributeName: aws.String(hashName), AttributeType: hashType},
				},
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(hashName), KeyType: types.KeyTypeHash},
				},
			}

			if sortKey, _ := cmd.Flags().GetString("sort-key"); sortKey != "" {
				rangeName, rangeType, err := parseKeySpec(sortKey)
				if err != nil {
					return err
				}
				input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
					AttributeName: aws.String(rangeName), AttributeType: rangeType,
				})
				input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
					AttributeName: aws.String(rangeName), KeyType: types.KeyTypeRange,
				})
			}

			out, err := ddbClient.CreateTable(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printDescription(out.TableDescription)
		},
	}
	describeCmd = &cobra.Command{
		Use:   "describe [name]",
		Short: "Shows the schema and metadata of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := ddbClient.DescribeTable(cmd.Context(), &dynamodb.DescribeTableInput{
				TableName: aws.String(args[0]),
			})
			if err != nil {
				return err
			}
			return printDescription(out.Table)
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := ddbClient.ListTables(cmd.Context(), &dynamodb.ListTablesInput{})
			if err != nil {
				return err
			}
			for _, name := range out.TableNames {
				fmt.Println(name)
			}
			return nil
		},
	}
)

func init() {
	createCmd.Flags().String("sort-key", "", util.WrapString("Optional sort key in name:type format (e.g. seq:N)"))
}

// parseKeySpec splits a name:type key specification
func parseKeySpec(spec string) (string, types.ScalarAttributeType, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid key specification %q (expected name:type)", spec)
	}
	switch strings.ToUpper(parts[1]) {
	case "S":
		return parts[0], types.ScalarAttributeTypeS, nil
	case "N":
		return parts[0], types.ScalarAttributeTypeN, nil
	case "B":
		return parts[0], types.ScalarAttributeTypeB, nil
	default:
		return "", "", fmt.Errorf("invalid key type %q (expected one of: S, N, B)", parts[1])
	}
}

// printDescription prints a table description as indented JSON
func printDescription(desc *types.TableDescription) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
