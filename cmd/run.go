package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/filtering"
	"github.com/spigell/profile-matcher/internal/matching"
	"github.com/spigell/profile-matcher/internal/summary"
)

const (
	PromptShowResults         = "Show results"
	PromptShowSummary         = "Show summary"
	PromptReportByAttribute   = "Report by attribute"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append results to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowResults, PromptShowSummary, PromptReportByAttribute, PromptResultsToFile, PromptAppendToExcludeFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match the dataset against the configured criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the results and exit without the menu")
	runCmd.Flags().StringArrayP("criterion", "c", nil, "an attribute:value criterion, may be repeated")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with record ids to exclude. Default is unset.")
	runCmd.Flags().IntP("limit", "l", 0, "keep only the best N results")

	viper.BindPFlag("filters.exclude-file", runCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.limit", runCmd.Flags().Lookup("limit"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	s, err := newSession(ctx)
	if err != nil {
		log.Fatal(err)
	}
	logger := s.logger

	logger.Info("starting the profile-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(s.config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	extra, _ := cmd.Flags().GetStringArray("criterion")
	for _, text := range extra {
		s.enter(text)
	}

	results, sum, err := s.match(ctx, filtering.Default())
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}
	logSummary(logger, sum)

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no records left after filters"))
		return
	}

	out := cmd.OutOrStdout()
	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		printResults(out, results)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of results", zap.Int("count", results.Len()))

		if err := handleAction(action, out, logger, s.config, results, sum); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, config *Config, results *matching.Results, sum summary.Summary) error {
	switch action {
	case PromptShowResults:
		printResults(out, results)
		return nil
	case PromptShowSummary:
		for _, line := range sum.Lines() {
			fmt.Fprintln(out, line)
		}
		return nil
	case PromptReportByAttribute:
		pretty, _ := json.MarshalIndent(results.ReportByAttribute(), "", "  ")
		logger.Info(string(pretty), zap.Int("results count", results.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		path := filterConfig(config).ExcludeFile
		if path == "" {
			logger.Warn("exclude file is not configured", zap.String("hint", "set filters.exclude-file or --exclude-file"))
			return nil
		}
		added, err := appendToExcludeFile(path, results)
		if err != nil {
			return err
		}
		logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("added", added))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func logSummary(logger *zap.Logger, sum summary.Summary) {
	logger.Info("match summary",
		zap.Int("total_matches", sum.TotalMatches),
		zap.String("average_match", sum.Average()),
		zap.String("best_match", sum.Best()),
	)
}

func printResults(out io.Writer, results *matching.Results) {
	for _, item := range results.Items {
		if item.Failed() {
			fmt.Fprintf(out, "%s\tfailed\t%s\n", item.ID, item.Error)
			continue
		}
		line := fmt.Sprintf("%s\t%s", item.ID, summary.FormatPercent(&item.Percentage))
		if item.Reason != "" {
			line += "\t" + item.Reason
		}
		fmt.Fprintln(out, line)
	}
}

// appendToExcludeFile merges the result ids into the JSON id list at path and
// returns how many were new.
func appendToExcludeFile(path string, results *matching.Results) (int, error) {
	var existing []string
	if _, err := os.Stat(path); err == nil {
		existing, err = filtering.ExcludedIDsFromFile(path)
		if err != nil {
			return 0, err
		}
	}

	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}

	added := 0
	for _, item := range results.Items {
		id := strings.TrimSpace(item.ID)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		existing = append(existing, id)
		added++
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("writing exclude file: %w", err)
	}
	return added, nil
}
