package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizard/internal/api"
	"github.com/abhisek/quizard/internal/auth"
	"github.com/abhisek/quizard/internal/config"
	"github.com/abhisek/quizard/internal/events"
	"github.com/abhisek/quizard/internal/leaderboard"
	"github.com/abhisek/quizard/internal/llm"
	"github.com/abhisek/quizard/internal/quiz"
	"github.com/abhisek/quizard/internal/quizgen"
	"github.com/abhisek/quizard/internal/stats"
	"github.com/abhisek/quizard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := cfg.Log.NewLogger(os.Stdout)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newQuestionSource(ctx, cfg, st, logger)
	if err != nil {
		return err
	}
	analyzer := stats.NewAnalyzer(st.Stats(), cfg.Quiz.WeakThreshold, cfg.Quiz.WeakMinAttempts)

	var (
		observers []quiz.Observer
		cache     leaderboard.Cache
	)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		rc := leaderboard.NewRedisCache(client, cfg.Redis.Key)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, leaderboard served from database", "addr", cfg.Redis.Addr, "error", err)
		} else {
			cache = rc
		}
	}

	board := leaderboard.NewService(st.Stats(), cache, logger)
	if cache != nil {
		observers = append(observers, board)
		if err := board.Warm(ctx); err != nil {
			logger.Warn("leaderboard cache warm-up failed, serving from database", "error", err)
		}
	}

	if cfg.RabbitMQ.URL != "" {
		pub, err := events.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Warn("rabbitmq unavailable, completion events disabled", "error", err)
		} else {
			defer pub.Close()
			observers = append(observers, pub)
		}
	}

	engine := quiz.NewEngine(st, source, analyzer,
		quiz.WithObservers(observers...),
		quiz.WithLogger(logger))

	chain := auth.Chain{Session: auth.NewSessionAuthenticator(st.Users())}
	if cfg.Auth.JWTSecret != "" {
		chain.JWT = auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, st.Users())
	}

	router := api.NewRouter(
		api.NewHandler(engine, analyzer, board, logger),
		auth.Middleware(chain, cfg.Auth.CookieName, logger),
		api.RouterConfig{CORSOrigin: cfg.Server.CORSOrigin, Logger: logger},
	)

	return api.Serve(ctx, cfg.Server.Address, router, cfg.Server.ShutdownTimeout, logger)
}

// newQuestionSource puts the configured LLM in front of the static bank.
// Without a provider every quiz comes from the static bank.
func newQuestionSource(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (quizgen.Source, error) {
	static := quizgen.NewStaticSource()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	if errors.Is(err, llm.ErrNoProvider) {
		logger.Warn("no LLM provider configured, serving static questions only")
		return quizgen.NewFallbackSource(nil, static, logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	qcfg := quizgen.DefaultConfig()
	if cfg.LLM.Timeout > 0 {
		qcfg.Timeout = cfg.LLM.Timeout
	}
	logger.Info("question generation enabled", "provider", provider.Name(), "model", provider.ModelID())
	return quizgen.NewFallbackSource(quizgen.NewLLMSource(provider, qcfg), static, logger), nil
}
