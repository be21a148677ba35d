package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/publish"
	"github.com/Hali-creater/AuraPin/internal/review"
	"github.com/Hali-creater/AuraPin/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and decide on pending candidate pins",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewShowCommand(ctx))
	reviewCmd.AddCommand(newReviewDecisionCommand(ctx, "approve", "approved", "Approve candidates for publishing", store.StatusApproved))
	reviewCmd.AddCommand(newReviewDecisionCommand(ctx, "reject", "rejected", "Reject candidates", store.StatusRejected))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidate pins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				statuses := make([]store.Status, 0, len(listStatuses))
				for _, raw := range listStatuses {
					status, ok := store.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}
				if len(listStatuses) == 0 {
					statuses = []store.Status{store.StatusPending}
				}

				queue := newReviewQueue(ctx, st)
				candidates, err := queue.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(candidates) == 0 {
					fmt.Fprintln(out, "No candidates to review")
					return nil
				}

				rows := make([][]string, 0, len(candidates))
				for _, candidate := range candidates {
					rows = append(rows, []string{
						strconv.FormatInt(candidate.ID, 10),
						candidate.ProductID,
						candidate.Title,
						string(candidate.Status),
						yesNo(candidate.HasImage()),
						candidate.CreatedAt.Format(time.RFC3339),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{numCol("ID"), col("Product"), col("Title"), col("Status"), col("Image"), col("Created")},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by candidate status (repeatable; default pending)")
	return cmd
}

func newReviewShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <candidateID>",
		Short: "Show one candidate in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCandidateID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				candidate, err := newReviewQueue(ctx, st).Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if candidate == nil {
					return fmt.Errorf("candidate %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Candidate %d (%s)\n", candidate.ID, candidate.Status)
				fmt.Fprintf(out, "Product:  %s\n", candidate.ProductID)
				fmt.Fprintf(out, "Title:    %s\n", candidate.Title)
				if candidate.HasImage() {
					fmt.Fprintf(out, "Image:    %s\n", candidate.ImagePath)
				} else {
					fmt.Fprintln(out, "Image:    (none)")
				}
				if len(candidate.ImageFlags) > 0 {
					fmt.Fprintf(out, "Flags:    %s\n", strings.Join(candidate.ImageFlags, ", "))
				}
				if candidate.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", candidate.ErrorMessage)
				}
				fmt.Fprintf(out, "\n%s\n", candidate.Description)
				return nil
			})
		},
	}
}

func newReviewDecisionCommand(ctx *commandContext, verb, past, short string, target store.Status) *cobra.Command {
	var publishAfter bool

	cmd := &cobra.Command{
		Use:   verb + " <candidateID...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
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
				queue := newReviewQueue(ctx, st)
				out := cmd.OutOrStdout()
				decided := make([]int64, 0, len(ids))
				for _, id := range ids {
					var err error
					if target == store.StatusApproved {
						_, err = queue.Approve(cmd.Context(), id)
					} else {
						_, err = queue.Reject(cmd.Context(), id)
					}
					switch {
					case err == nil:
						fmt.Fprintf(out, "Candidate %d %s\n", id, past)
						decided = append(decided, id)
					case errors.Is(err, store.ErrAlreadyDecided):
						fmt.Fprintf(out, "Candidate %d already has a decision, left unchanged\n", id)
					case errors.Is(err, store.ErrCandidateNotFound):
						fmt.Fprintf(out, "Candidate %d not found\n", id)
					default:
						return err
					}
				}
				if !publishAfter || len(decided) == 0 {
					return nil
				}

				publisher, err := ctx.newPublisher(cfg, st)
				if err != nil {
					return err
				}
				if publisher.Simulating() {
					fmt.Fprintln(out, "Simulation mode: pins are recorded but not sent to Pinterest")
				}
				results := make([]*publish.PostResult, 0, len(decided))
				for _, id := range decided {
					result, err := publisher.Publish(cmd.Context(), id)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
				printPostResults(out, results)
				return nil
			})
		},
	}

	if target == store.StatusApproved {
		cmd.Flags().BoolVar(&publishAfter, "publish", true, "Publish approved candidates immediately (--publish=false defers to `aurapin publish`)")
	}
	return cmd
}

func newReviewQueue(ctx *commandContext, st *store.Store) *review.Queue {
	logger, _ := ctx.ensureLogger()
	return review.NewQueue(st, logger)
}

func parseCandidateID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid candidate id %q", arg)
	}
	return id, nil
}
