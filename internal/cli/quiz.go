package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"quiz-submission-service/internal/config"
	"quiz-submission-service/internal/infra/memory"
	rediscache "quiz-submission-service/internal/infra/redis"
)

// NewQuizCmd groups quiz-definition maintenance commands.
func NewQuizCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Manage quiz definitions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Load quiz definitions from a YAML file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return importQuizzes(cmd.Context(), cfg, args[0])
		},
	})
	return cmd
}

func importQuizzes(ctx context.Context, cfg config.Config, path string) error {
	quizzes, err := memory.ReadQuizFile(path)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.quizWriter == nil {
		return fmt.Errorf("storage driver %s keeps quizzes in quiz.seedFile; nothing to import into", cfg.Storage.Driver)
	}

	var cache *rediscache.QuizRepository
	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		cache = rediscache.NewQuizRepository(client, st.quizLoader, config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute))
	}

	for _, quiz := range quizzes {
		if err := st.quizWriter.SaveQuiz(ctx, quiz); err != nil {
			return err
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, quiz.ID); err != nil {
				log.Printf("invalidate cached quiz %s: %v", quiz.ID, err)
			}
		}
		log.Printf("imported quiz %s (%d questions)", quiz.ID, len(quiz.Questions))
	}
	return nil
}
