package item

import (
	"github.com/ValentinKolb/lDDB/cmd/util"
	"github.com/ValentinKolb/lDDB/rpc/client"
	"github.com/spf13/cobra"
)

var (
	ddbClient client.IClient

	// ItemCommands represents the item command group
	ItemCommands = &cobra.Command{
		Use:               "item",
		Short:             "Read and write items on a lDDB server",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the item command
	util.SetupRPCClientFlags(ItemCommands)

	// Add subcommands
	ItemCommands.AddCommand(putCmd)
	ItemCommands.AddCommand(getCmd)
	ItemCommands.AddCommand(deleteCmd)
}

// setupClient initializes the RPC client
func setupClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	ddbClient = util.NewClient()
	return nil
}
