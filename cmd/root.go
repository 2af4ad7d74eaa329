package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/lDDB/cmd/item"
	"github.com/ValentinKolb/lDDB/cmd/serve"
	"github.com/ValentinKolb/lDDB/cmd/table"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "lddb",
		Short: "local DynamoDB-compatible store",
		Long: fmt.Sprintf(`lDDB (v%s)

A local, in-memory DynamoDB-compatible store written in Go.
It can be embedded in-process with zero serialization overhead or run
as a server that any generated DynamoDB client can talk to.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lDDB",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lDDB v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(table.TableCommands)
	RootCmd.AddCommand(item.ItemCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
