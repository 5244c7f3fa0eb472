package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizard/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by total score",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		board := leaderboard.NewService(s.Stats(), nil, cliLogger())
		entries, err := board.Top(context.Background(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No completed quizzes yet.")
			return nil
		}

		fmt.Fprintf(out, "%4s  %-28s  %8s  %7s\n", "Rank", "Player", "Score", "Quizzes")
		fmt.Fprintln(out, strings.Repeat("─", 54))
		for i, e := range entries {
			name := e.Name
			if name == "" {
				name = e.UserID
			}
			fmt.Fprintf(out, "%4d  %-28s  %8d  %7d\n", i+1, truncate(name, 28), e.TotalScore, e.QuizzesCompleted)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", leaderboard.DefaultLimit, "Number of players to show")
}
