package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/store"
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List stored worksheet batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.WorksheetRepo().ListBatches(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list batches: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No batches found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-4s  %s\n", "Seq", "Created", "Sets", "ID")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, b := range list {
			fmt.Fprintf(out, "%-5d  %-19s  %-4d  %s\n",
				b.Sequence, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Sets, b.ID)
		}
		return nil
	},
}

var batchesDeleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete a stored batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.WorksheetRepo().DeleteBatch(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("batch %q not found", args[0])
			}
			return fmt.Errorf("delete batch: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s.\n", args[0])
		return nil
	},
}

func init() {
	batchesCmd.Flags().IntP("limit", "n", 20, "Number of batches to show")
	batchesCmd.AddCommand(batchesDeleteCmd)
}
