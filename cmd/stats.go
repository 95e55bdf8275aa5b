package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/999aryaDharma/HackStack/internal/play"
	"github.com/999aryaDharma/HackStack/internal/review"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review deck statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := review.New(st.CardRepo(), review.WithLogger(logger)).Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("review stats: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), play.RenderStats(stats))
		return nil
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		overdue, _ := cmd.Flags().GetBool("overdue")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := review.New(st.CardRepo(), review.WithLogger(logger))
		recs, err := svc.DueCards(cmd.Context(), limit)
		if overdue {
			recs, err = svc.OverdueCards(cmd.Context(), limit)
		}
		if err != nil {
			return fmt.Errorf("query due cards: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), play.RenderDueList(recs, time.Now(), 120))
		return nil
	},
}

func init() {
	dueCmd.Flags().IntP("limit", "n", 20, "Number of cards to show")
	dueCmd.Flags().Bool("overdue", false, "Only cards more than a day overdue")
}
