package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/publish"
	"github.com/Hali-creater/AuraPin/internal/store"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [candidateID...]",
		Short: "Post approved candidates to Pinterest (or simulate)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseCandidateID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				publisher, err := ctx.newPublisher(cfg, st)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if publisher.Simulating() {
					fmt.Fprintln(out, "Simulation mode: pins are recorded but not sent to Pinterest")
				}

				var results []*publish.PostResult
				if len(ids) == 0 {
					results, err = publisher.PublishApproved(cmd.Context())
				} else {
					for _, id := range ids {
						result, perr := publisher.Publish(cmd.Context(), id)
						if perr != nil {
							err = perr
							break
						}
						results = append(results, result)
					}
				}
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "Nothing to publish; approve candidates first with `aurapin review approve`")
					return nil
				}

				printPostResults(out, results)
				return nil
			})
		},
	}
	return cmd
}

func printPostResults(out io.Writer, results []*publish.PostResult) {
	rows := make([][]string, 0, len(results))
	failed := 0
	for _, result := range results {
		outcome := string(store.StatusPosted)
		pinID := result.PinID
		if result.Err != nil {
			outcome = string(store.StatusPostFailed)
			pinID = ""
			failed++
		}
		rows = append(rows, []string{
			strconv.FormatInt(result.Candidate.ID, 10),
			result.Candidate.ProductID,
			outcome,
			pinID,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]tableColumn{numCol("ID"), col("Product"), col("Outcome"), col("Pin")},
		rows,
	))
	if failed > 0 {
		fmt.Fprintf(out, "%d post(s) failed; run `aurapin publish` again to retry\n", failed)
	}
}
