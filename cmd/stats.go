package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizard/internal/stats"
	"github.com/abhisek/quizard/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a player's per-subtopic performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")
		if ref == "" {
			return errors.New("--user is required")
		}

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		u, err := lookupUser(ctx, s, ref)
		if err != nil {
			return err
		}

		analyzer := stats.NewAnalyzer(s.Stats(), cfg.Quiz.WeakThreshold, cfg.Quiz.WeakMinAttempts)
		sums, err := analyzer.Summaries(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s <%s>\n", u.Name, u.Email)
		if entry, err := s.Stats().LeaderboardEntry(ctx, u.ID); err == nil {
			fmt.Fprintf(out, "Total score: %d over %d quizzes\n", entry.TotalScore, entry.QuizzesCompleted)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load leaderboard entry: %w", err)
		}
		fmt.Fprintln(out)

		if len(sums) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-32s  %6s  %7s  %8s  %s\n", "Subtopic", "Total", "Correct", "Accuracy", "")
		fmt.Fprintln(out, strings.Repeat("─", 66))
		for _, sum := range sums {
			flag := ""
			if sum.Weak {
				flag = "weak"
			}
			fmt.Fprintf(out, "%-32s  %6d  %7d  %7.1f%%  %s\n",
				truncate(sum.Subtopic, 32), sum.Total, sum.Correct, sum.Accuracy, flag)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("user", "u", "", "Player email or id")
}
