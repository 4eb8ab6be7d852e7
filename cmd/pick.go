package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/cards"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively search the chapters and print the chosen link",
	Long: `Opens an interactive list of chapter cards. Typing filters the list with
the same rules as the index page's search box. The link of the chosen
chapter is printed to stdout.`,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snapshot, err := loadCards(cfg)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 {
		return errors.New("no chapter cards to pick from")
	}

	prompt := promptui.Select{
		Label:             "Chapter",
		Items:             snapshot,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          cardSearcher(snapshot),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Title | cyan }} {{ .Difficulty | faint }}",
			Inactive: "  {{ .Title }} {{ .Difficulty | faint }}",
			Selected: "✔ {{ .Title | green }}",
			Details: `
{{ .Description }}
{{ if .Tags }}Tags: {{ .Tags }}{{ end }}`,
		},
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		return fmt.Errorf("chapter selection: %w", err)
	}

	chosen := snapshot[idx]
	if chosen.Href != "" {
		fmt.Fprintln(cmd.OutOrStdout(), chosen.Href)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), chosen.Title)
	}
	return nil
}

// cardSearcher adapts the card filter to promptui's per-item search hook.
func cardSearcher(snapshot []cards.Card) func(input string, index int) bool {
	return func(input string, index int) bool {
		return cards.Match(snapshot[index], input).Visible
	}
}
