package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/profile-matcher/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial input>",
	Short: "Complete an attribute or attribute:value from the dataset",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newSession(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		input := strings.Join(args, "")
		for _, suggestion := range s.index.Suggest(input, limit) {
			fmt.Fprintln(cmd.OutOrStdout(), suggestion)
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntP("limit", "l", suggest.DefaultLimit, "maximum number of suggestions")
}
