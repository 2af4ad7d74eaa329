package table

import (
	"github.com/ValentinKolb/lDDB/cmd/util"
	"github.com/ValentinKolb/lDDB/rpc/client"
	"github.com/spf13/cobra"
)

var (
	ddbClient client.IClient

	// TableCommands represents the table command group
	TableCommands = &cobra.Command{
		Use:               "table",
		Short:             "Manage tables on a lDDB server",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the table command
	util.SetupRPCClientFlags(TableCommands)

	// Add subcommands
	TableCommands.AddCommand(createCmd)
	TableCommands.AddCommand(describeCmd)
	TableCommands.AddCommand(listCmd)
}

// setupClient initializes the RPC client
func setupClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	ddbClient = util.NewClient()
	return nil
}
