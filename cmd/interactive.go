package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/filtering"
	"github.com/spigell/profile-matcher/internal/search"
	"github.com/spigell/profile-matcher/internal/suggest"
	"github.com/spigell/profile-matcher/internal/validation"
)

const (
	PromptAddCriterion    = "Add criterion"
	PromptRemoveCriterion = "Remove criterion"
	PromptAdjustWeight    = "Adjust weight"
	PromptUndo            = "Undo"
	PromptSearch          = "Search"
	PromptBack            = "back"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Build criteria interactively and match them against the dataset",
	Run: func(cmd *cobra.Command, _ []string) {
		interactive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func interactive(cmd *cobra.Command) {
	ctx := context.Background()

	s, err := newSession(ctx)
	if err != nil {
		log.Fatal(err)
	}
	logger := s.logger
	out := cmd.OutOrStdout()

	s.store.Subscribe(func(state search.State) {
		if len(state.Errors) > 0 {
			logger.Warn("invalid criterion", zap.Strings("errors", state.Errors))
		}
	})

	for {
		menu := promptui.Select{
			Label: fmt.Sprintf("Criteria: %s", describeCriteria(s.store.State())),
			Items: []string{PromptAddCriterion, PromptRemoveCriterion, PromptAdjustWeight, PromptUndo, PromptSearch, PromptExit},
		}

		_, action, err := menu.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptAddCriterion:
			err = addCriterion(s, "")
		case PromptRemoveCriterion:
			err = removeCriterion(s)
		case PromptAdjustWeight:
			err = adjustWeight(s)
		case PromptUndo:
			if !s.store.Undo() {
				logger.Info("nothing to undo")
			}
		case PromptSearch:
			steps := filtering.Default()
			results, sum, matchErr := s.match(ctx, steps)
			if matchErr != nil {
				logger.Warn("matching failed", zap.Error(matchErr))
				continue
			}
			logSummary(logger, sum)
			printResults(out, results)
		case PromptExit:
			logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return
		}

		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return
			}
			logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

// addCriterion reads a criterion. Rejected input offers completions from the
// dataset; picking an attribute completion asks again for its value.
func addCriterion(s *session, initial string) error {
	input := promptui.Prompt{
		Label:     "attribute:value",
		Default:   initial,
		AllowEdit: true,
	}

	text, err := input.Run()
	if err != nil {
		return err
	}
	if s.enter(text) {
		return nil
	}

	suggestions := s.index.Suggest(text, suggest.DefaultLimit)
	if len(suggestions) == 0 {
		return nil
	}

	picker := promptui.Select{
		Label: "Did you mean",
		Items: append(suggestions, PromptBack),
	}
	_, picked, err := picker.Run()
	if err != nil || picked == PromptBack {
		return err
	}

	if search.ParseInput(picked).Stage == search.StageAttribute {
		return addCriterion(s, picked)
	}
	s.enter(picked)
	return nil
}

func removeCriterion(s *session) error {
	idx, err := pickCriterion(s.store.State())
	if err != nil || idx < 0 {
		return err
	}
	s.store.Dispatch(search.Remove(idx))
	return nil
}

func adjustWeight(s *session) error {
	state := s.store.State()
	idx, err := pickCriterion(state)
	if err != nil || idx < 0 {
		return err
	}
	name := state.Criteria[idx].Name()

	s.store.Dispatch(search.ToggleModal(name))
	defer s.store.Dispatch(search.HideModal())

	cfg := s.searchConfig()
	current := cfg.Weight(resolveAttribute(cfg.Attributes, name))
	input := promptui.Prompt{
		Label:   fmt.Sprintf("weight of %s [0-1]", name),
		Default: strconv.FormatFloat(current, 'f', -1, 64),
		Validate: func(raw string) error {
			_, err := validation.ParseWeight(raw)
			return err
		},
	}

	raw, err := input.Run()
	if err != nil {
		return err
	}
	w, err := validation.ParseWeight(raw)
	if err != nil {
		return err
	}

	s.store.Dispatch(search.Weigh(name, w))
	return nil
}

// pickCriterion returns the chosen index, or -1 when the user went back.
func pickCriterion(state search.State) (int, error) {
	if len(state.Criteria) == 0 {
		return -1, nil
	}

	items := make([]string, 0, len(state.Criteria)+1)
	for _, c := range state.Criteria {
		items = append(items, c.String())
	}
	picker := promptui.Select{
		Label: "Choose a criterion and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, picked, err := picker.Run()
	if err != nil {
		return -1, err
	}
	if picked == PromptBack {
		return -1, nil
	}
	return idx, nil
}

func describeCriteria(state search.State) string {
	if len(state.Criteria) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(state.Criteria))
	for _, c := range state.Criteria {
		part := c.String()
		if w, ok := state.Weights[c.Name()]; ok {
			part += fmt.Sprintf(" (%s)", strconv.FormatFloat(w, 'f', -1, 64))
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
