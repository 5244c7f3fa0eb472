package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizard/internal/auth"
	"github.com/abhisek/quizard/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage players and their access tokens",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		email = strings.TrimSpace(email)
		if email == "" {
			return errors.New("--email is required")
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		u := &store.User{Email: email, Name: name}
		if err := s.Users().CreateUser(context.Background(), u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), u.ID)
		return nil
	},
}

var userTokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue an access token for a player",
	Long: "Issue an opaque session token stored in the database, or a signed JWT " +
		"with --jwt (requires auth.jwt_secret).",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useJWT, _ := cmd.Flags().GetBool("jwt")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if ttl <= 0 {
			ttl = cfg.Auth.TokenTTL
		}

		ctx := context.Background()
		u, err := lookupUser(ctx, s, args[0])
		if err != nil {
			return err
		}

		var token string
		if useJWT {
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			token, err = auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, s.Users()).Issue(u.ID, ttl)
		} else {
			token = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
			_, err = s.Users().CreateAuthSession(ctx, u.ID, token, ttl)
		}
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// lookupUser accepts either an email address or a user id.
func lookupUser(ctx context.Context, s *store.Store, ref string) (*store.User, error) {
	var (
		u   *store.User
		err error
	)
	if strings.Contains(ref, "@") {
		u, err = s.Users().GetUserByEmail(ctx, ref)
	} else {
		u, err = s.Users().GetUser(ctx, ref)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}

func init() {
	userAddCmd.Flags().String("email", "", "Email address (unique)")
	userAddCmd.Flags().String("name", "", "Display name")

	userTokenCmd.Flags().Bool("jwt", false, "Issue a signed JWT instead of a session token")
	userTokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default auth.token_ttl)")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userTokenCmd)
}
