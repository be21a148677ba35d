package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/store"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Inspect and manage the posted-product history",
	}

	dedupCmd.AddCommand(newDedupListCommand(ctx))
	dedupCmd.AddCommand(newDedupClearRejectedCommand(ctx))

	return dedupCmd
}

func newDedupListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products with a recorded outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				records, err := st.DedupRecords(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No recorded outcomes yet")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.ProductID,
						string(record.Outcome),
						record.PinID,
						record.CreatedAt.Format(time.RFC3339),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{col("Product"), col("Outcome"), col("Pin"), col("Recorded")},
					rows,
				))
				return nil
			})
		},
	}
}

func newDedupClearRejectedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-rejected",
		Short: "Forget rejected outcomes so those products surface again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				removed, err := st.ClearRejected(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d rejected records\n", removed)
				return nil
			})
		},
	}
}
