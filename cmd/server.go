/*
Copyright © 2022 PCEA St Andrew's

*/
package cmd

import (
	"fmt"
	"log"
	"strings"

	devconfig "github.com/pcea-st-andrews/stands-ims/dev/config"
	"github.com/pcea-st-andrews/stands-ims/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a stands-ims server",
	Long:  `The stands-ims server houses the congregation records API & its background jobs`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(serverConfig(), isDevEnv)
	},
}

var serverCongFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	// TODO: Make this required, when not in dev mode
	serverCmd.Flags().StringVar(&serverCongFile, "sconfig", "", "Config for server")
}

func serverConfig() *viper.Viper {
	config = viper.New()
	config.AutomaticEnv() // read in environment variables that match

	// Dev & test runs use the config baked into the binary, so no
	// setup is needed to get a server going locally.
	if isDevEnv || isTestEnv {
		fmt.Println(warningLabel, "running with the built-in dev config")

		config.SetConfigType("yml")
		if err := config.ReadConfig(strings.NewReader(devconfig.SERVER_YML)); err != nil {
			log.Panic(fmt.Sprintf("error reading built-in dev config: %v", err))
		}

		return config
	}

	if serverCongFile == "" {
		cobra.CheckErr(formattedError("--sconfig is required outside of dev mode"))
	}

	config.SetConfigFile(serverCongFile)

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		log.Panic(fmt.Sprintf("error reading server config file: %v", err))
	}

	return config
}
