package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/history"
	"github.com/lixenwraith/audwanee/report"
)

// previewLen truncates prompts in the listing
const previewLen = 48

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved analyses.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), historyTable(entries))
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries, 0 for all")

	var (
		jsonOut bool
		style   string
	)
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved analysis by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return report.JSON(cmd.OutOrStdout(), &e.Result)
			}
			files := make([]attachment.File, 0, len(e.Files))
			for _, f := range e.Files {
				files = append(files, attachment.Reference(f.Name, f.MIME, f.Size))
			}
			return report.Render(cmd.OutOrStdout(), e.Prompt, files, &e.Result, report.Options{Style: style})
		},
	}
	show.Flags().BoolVar(&jsonOut, "json", false, "Print the raw result as JSON")
	show.Flags().StringVar(&style, "style", "", "Report style: dark, light, notty (default auto)")

	cmd.AddCommand(list, show)
	return cmd
}

func historyTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID[:min(8, len(e.ID))],
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(e.Result.OverallRisk),
			fmt.Sprintf("%.0f", e.Result.RiskScore),
			preview(e.Prompt),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "WHEN", "RISK", "SCORE", "PROMPT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Render()
}

func preview(prompt string) string {
	p := strings.Join(strings.Fields(prompt), " ")
	r := []rune(p)
	if len(r) > previewLen {
		return string(r[:previewLen-1]) + "…"
	}
	return p
}
