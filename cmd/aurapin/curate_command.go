package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/store"
)

func newCurateCommand(ctx *commandContext) *cobra.Command {
	var feedURL string
	var maxProducts int

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Run one curation batch and queue candidates for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				pipeline, err := ctx.newPipeline(cfg, st)
				if err != nil {
					return err
				}

				url := strings.TrimSpace(feedURL)
				if url == "" {
					url = cfg.Feed.URL
				}
				limit := maxProducts
				if limit <= 0 {
					limit = cfg.Curation.MaxProducts
				}

				result, err := pipeline.Run(cmd.Context(), url, limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(result.Candidates) == 0 {
					fmt.Fprintln(out, "No new candidates; every feed product was malformed, already posted, or the feed is empty")
				} else {
					rows := make([][]string, 0, len(result.Candidates))
					for _, candidate := range result.Candidates {
						rows = append(rows, []string{
							strconv.FormatInt(candidate.ID, 10),
							candidate.ProductID,
							candidate.Title,
							yesNo(candidate.HasImage()),
							strings.Join(candidate.ImageFlags, ", "),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]tableColumn{numCol("ID"), col("Product"), col("Title"), col("Image"), col("Flags")},
						rows,
					))
				}
				fmt.Fprintf(out, "Run %s: %d candidates, %d malformed skipped, %d already posted, %d image failures\n",
					result.RunID, len(result.Candidates), result.Malformed, result.AlreadyPosted, result.ImageFailures)
				fmt.Fprintln(out, "Review them with `aurapin review list`")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&feedURL, "feed-url", "", "Override the configured feed URL")
	cmd.Flags().IntVarP(&maxProducts, "max", "n", 0, "Maximum candidates for this run (default from config)")
	return cmd
}
