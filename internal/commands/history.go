package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Wozniak7/Analisador-Financeiro/internal/runlog"
)

var historyHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func newHistoryCommand(global *globalOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous analysis runs recorded with --history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := runlog.Read(global.projectDir())
			if err != nil {
				return err
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analysis runs recorded.")
				return nil
			}

			t := table.New().
				Headers("When", "Source", "Kind", "Rows", "Dropped", "Balance", "Error").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return historyHeaderStyle
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			for _, e := range entries {
				t.Row(
					e.Timestamp.Local().Format(time.DateTime),
					e.Source,
					e.Kind,
					strconv.Itoa(e.Rows),
					strconv.Itoa(e.Dropped),
					e.Balance,
					e.Error,
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "show only the most recent runs, 0 for all")

	return cmd
}
