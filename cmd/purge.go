package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete abandoned quiz sessions and expired auth sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		now := time.Now().UTC()

		quizzes, err := s.Sessions().PurgeStarted(ctx, now.Add(-olderThan))
		if err != nil {
			return fmt.Errorf("purge quiz sessions: %w", err)
		}
		tokens, err := s.Users().DeleteExpiredAuthSessions(ctx, now)
		if err != nil {
			return fmt.Errorf("purge auth sessions: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d abandoned quiz sessions and %d expired auth sessions.\n", quizzes, tokens)
		return nil
	},
}

func init() {
	purgeCmd.Flags().Duration("older-than", 24*time.Hour, "Age after which an unfinished quiz counts as abandoned")
}
