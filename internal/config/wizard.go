package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the config file written by the wizard.
const DefaultPath = ".docsearch.yml"

// detectSource guesses the card source from the working directory: a
// rendered index page wins over a chapters directory.
func detectSource() SourceType {
	if _, err := os.Stat("index.html"); err == nil {
		return SourceHTML
	}
	if info, err := os.Stat("chapters"); err == nil && info.IsDir() {
		return SourceMarkdown
	}
	return SourceHTML
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docsearch! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Card source.
	detected := detectSource()
	items := []string{string(SourceHTML), string(SourceMarkdown)}
	cursor := 0
	if detected == SourceMarkdown {
		cursor = 1
	}
	sourcePrompt := promptui.Select{
		Label:     "Where are chapter cards read from",
		Items:     items,
		CursorPos: cursor,
	}
	_, sourceStr, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	cfg.Source = SourceType(sourceStr)

	// 2. Source location.
	switch cfg.Source {
	case SourceHTML:
		sitePrompt := promptui.Prompt{Label: "Site directory", Default: cfg.SiteDir}
		if cfg.SiteDir, err = sitePrompt.Run(); err != nil {
			return nil, fmt.Errorf("site directory: %w", err)
		}
		indexPrompt := promptui.Prompt{Label: "Index page (relative to site directory)", Default: cfg.IndexPage}
		if cfg.IndexPage, err = indexPrompt.Run(); err != nil {
			return nil, fmt.Errorf("index page: %w", err)
		}
	case SourceMarkdown:
		chaptersPrompt := promptui.Prompt{Label: "Chapters directory", Default: cfg.ChaptersDir}
		if cfg.ChaptersDir, err = chaptersPrompt.Run(); err != nil {
			return nil, fmt.Errorf("chapters directory: %w", err)
		}
		excludePrompt := promptui.Prompt{
			Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
			Default: "",
		}
		excludeStr, err := excludePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("exclude patterns: %w", err)
		}
		if excludeStr != "" {
			cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
		}
	}

	// 3. Analytics.
	analyticsPrompt := promptui.Select{
		Label: "Record search analytics",
		Items: []string{"yes", "no"},
	}
	idx, _, err := analyticsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("analytics selection: %w", err)
	}
	cfg.Analytics.Enabled = idx == 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
