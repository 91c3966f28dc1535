package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the questions later batches will avoid",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd, worksheet.DefaultSettings(), llmNone)
		if err != nil {
			return err
		}
		defer d.Close()

		h, err := d.history.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d questions in history\n", h.Len())
		recent := h.Recent(limit)
		if len(recent) == 0 {
			return nil
		}
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for i, text := range recent {
			fmt.Fprintf(out, "%4d  %s\n", h.Len()-len(recent)+i+1, text)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every stored question",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, worksheet.DefaultSettings(), llmNone)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.workbook.ClearHistory(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of recent questions to show")
	historyCmd.AddCommand(historyClearCmd)
}
