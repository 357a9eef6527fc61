/*
Copyright © 2022 PCEA St Andrew's

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pcea-st-andrews/stands-ims/colors"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pcea-st-andrews/stands-ims/shared"
	"github.com/spf13/cobra"
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove people with no date of birth on record",
	Long: `Legacy imports left some people without a date of birth. purge removes
those records, along with their relationships & temperature records.
The server also runs this nightly; the command is for one-off sweeps.`,
	Run: func(cmd *cobra.Command, args []string) {
		count, err := purgeIncompleteRecords()
		cobra.CheckErr(err)

		fmt.Printf("Purged %v incomplete people records\n", colors.Green(count))
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().StringVar(&serverCongFile, "sconfig", "", "Config for server")
}

func purgeIncompleteRecords() (int64, error) {
	parsedConfig := shared.ServerConfig{}
	if err := serverConfig().Unmarshal(&parsedConfig); err != nil {
		return 0, err
	}

	dbRootDir, err := os.UserHomeDir()
	if err != nil {
		return 0, err
	}

	if isDevEnv || isTestEnv {
		dbRootDir, err = os.Getwd()
		if err != nil {
			return 0, err
		}
	}

	if err := models.AutoMigrate(parsedConfig.Sqlite.PassPhrase, dbRootDir); err != nil {
		return 0, err
	}

	return models.PurgeIncompleteRecords()
}
