package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envFilePath = ".env"

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Business admin portal with role-based access control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(envFilePath); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to read %s: %v\n", envFilePath, err)
			}
		},
	}

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(ServeCmd())
	cmd.AddCommand(MigrateCmd())
	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(TokenCmd())

	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
