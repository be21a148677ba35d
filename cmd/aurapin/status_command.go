package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize pipeline state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.CandidateStats(cmd.Context())
				if err != nil {
					return err
				}
				records, err := st.DedupRecords(cmd.Context())
				if err != nil {
					return err
				}
				var postedEver, rejectedEver int
				for _, record := range records {
					switch record.Outcome {
					case store.OutcomePosted:
						postedEver++
					case store.OutcomeRejected:
						rejectedEver++
					}
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				simKind := statusOK
				simMessage := "off (pins are posted to Pinterest)"
				if cfg.SimulationMode() {
					simKind = statusWarn
					simMessage = "on (no real posts are made)"
				}
				genMessage := "template phrasings"
				if cfg.Generation.Enabled {
					genMessage = "model-assisted with template fallback"
				}

				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, st.Path(), colorize))
				fmt.Fprintln(out, renderStatusLine("Simulation", simKind, simMessage, colorize))
				fmt.Fprintln(out, renderStatusLine("Generation", statusInfo, genMessage, colorize))
				fmt.Fprintln(out, renderStatusLine("Pending", statusInfo, fmt.Sprintf("%d", stats.Pending), colorize))
				fmt.Fprintln(out, renderStatusLine("Approved", statusInfo, fmt.Sprintf("%d", stats.Approved), colorize))
				fmt.Fprintln(out, renderStatusLine("Post failures", statusInfo, fmt.Sprintf("%d", stats.PostFailed), colorize))
				fmt.Fprintln(out, renderStatusLine("Posted ever", statusOK, fmt.Sprintf("%d", postedEver), colorize))
				fmt.Fprintln(out, renderStatusLine("Rejected ever", statusInfo, fmt.Sprintf("%d", rejectedEver), colorize))
				return nil
			})
		},
	}
}
