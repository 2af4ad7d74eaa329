package serve

import (
	cmdUtil "github.com/ValentinKolb/lDDB/cmd/util"
	"github.com/ValentinKolb/lDDB/lib/backend/memory"
	"github.com/ValentinKolb/lDDB/rpc/common"
	"github.com/ValentinKolb/lDDB/rpc/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the lDDB server",
		Long:    `Start the lDDB server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is LDDB_<flag> (e.g. LDDB_ENDPOINT=0.0.0.0:8000)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8000", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8000, :0 for an ephemeral port)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 10, cmdUtil.WrapString("Per-request read/write timeout in seconds"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the lDDB server with a fresh in-memory backend
func run(_ *cobra.Command, _ []string) error {
	serv := server.NewRPCServer(
		*serveCmdConfig,
		memory.NewBackend(),
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("lddb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
