package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/loomworks/orgdeck/internal/api"
	"github.com/loomworks/orgdeck/internal/cmd"
	"github.com/loomworks/orgdeck/internal/config"
	"github.com/loomworks/orgdeck/internal/i18n"
	"github.com/loomworks/orgdeck/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "orgdeck",
		Short: "orgdeck - organization member console",
		Long:  "orgdeck CLI: browse organization members, inspect the attribute schema, and bulk-assign attributes.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.LoginCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
				fmt.Println("not logged in. run 'orgdeck login' first.")
				return err
			}
			cfg = nil
		} else {
			return err
		}
	}

	if err := i18n.LoadOverrides(config.StringsPath()); err != nil {
		return err
	}

	apiKey := ""
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	client := api.NewDefaultClient(apiKey)
	app := ui.NewApp(client, cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
