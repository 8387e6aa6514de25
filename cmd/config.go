package cmd

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the search config derived from the dataset and the config file",
	Run: func(cmd *cobra.Command, _ []string) {
		s, err := newSession(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.searchConfig()); err != nil {
			s.logger.Fatal("encoding search config", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
