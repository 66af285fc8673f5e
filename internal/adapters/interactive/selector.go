package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectAsset selects an asset from a list
func (s *SelectorAdapter) SelectAsset(ctx context.Context, assets []*models.Asset, prompt string) (*models.Asset, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets registered")
	}
	if len(assets) == 1 {
		return assets[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	options := formatAssetOptions(assets)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return assets[index], nil
}

// formatAssetOptions renders each asset as "SYMBOL Name (0x...)"
func formatAssetOptions(assets []*models.Asset) []string {
	options := make([]string, len(assets))
	for i, asset := range assets {
		symbol := color.New(color.FgWhite, color.Bold).Sprint(asset.Symbol)
		addr := color.New(color.FgBlue).Sprint(asset.ID.Hex())
		if asset.Name != "" {
			options[i] = fmt.Sprintf("%s %s (%s)", symbol, asset.Name, addr)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", symbol, addr)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// SuggestSymbols returns the registered symbols closest to an unknown one
func SuggestSymbols(symbol string, assets []*models.Asset) []string {
	symbols := make([]string, len(assets))
	for i, a := range assets {
		symbols[i] = a.Symbol
	}
	matches := fuzzy.Find(strings.ToUpper(symbol), symbols)
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.AssetSelector = (*SelectorAdapter)(nil)
