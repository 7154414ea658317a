package app

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/GoStageSetting/GoStageSetting/internal/daemon"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/snapshot"
)

// ErrCheckFailed is returned when settings check finds errors.
var ErrCheckFailed = errors.New("setting declarations have errors")

//nolint:gochecknoglobals
var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	levelStyle = map[registry.Level]lipgloss.Style{
		registry.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		registry.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		registry.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsListCmd, settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Inspect runtime settings",
	}

	settingsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print every setting as the web service resolves it",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, reg, err := daemon.Bootstrap(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			items, err := snapshot.New(reg, db, snapshot.WithContext(cmd.Context())).Items()
			if err != nil {
				return err
			}

			return renderItems(cmd.OutOrStdout(), items)
		},
	}

	settingsCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate the [Settings] declarations without touching the database",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues := registry.Check(cfg.Declarations(), daemon.Catalog(nil), daemon.Synthesizer(&cfg))

			return renderIssues(cmd.OutOrStdout(), issues)
		},
	}
)

// renderItems prints each setting followed by its keys, sorted and aligned.
func renderItems(w io.Writer, items []snapshot.Item) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(w, nameStyle.Render(item.Name)); err != nil {
			return err
		}

		keys := make([]string, 0, len(item.Values))
		width := 0

		for k := range item.Values {
			keys = append(keys, k)
			width = max(width, len(k))
		}

		sort.Strings(keys)

		for _, k := range keys {
			v, err := registry.Normalize(item.Values[k])
			if err != nil {
				return err
			}

			label := keyStyle.Render(k + ":" + strings.Repeat(" ", width-len(k)))
			if _, err := fmt.Fprintf(w, "  %s %v\n", label, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// renderIssues prints the issues and fails when one of them is an error.
func renderIssues(w io.Writer, issues []registry.Issue) error {
	failed := false

	for _, issue := range issues {
		style, ok := levelStyle[issue.Level]
		if !ok {
			style = lipgloss.NewStyle()
		}

		if _, err := fmt.Fprintln(w, style.Render(issue.String())); err != nil {
			return err
		}

		failed = failed || issue.Level == registry.LevelError
	}

	if failed {
		return ErrCheckFailed
	}

	if len(issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")

		return err
	}

	return nil
}
