package app

import (
	"context"
	"fmt"
	"sync"

	quizHTTP "github.com/allisson/quizly/internal/quiz/http"
	quizRepository "github.com/allisson/quizly/internal/quiz/repository"
	quizService "github.com/allisson/quizly/internal/quiz/service"
	quizUseCase "github.com/allisson/quizly/internal/quiz/usecase"
)

type quizComponents struct {
	quizRepository quizUseCase.QuizRepository
	transcriber    quizService.Transcriber
	quizGenerator  quizService.QuizGenerator
	quizUseCase    quizUseCase.UseCase
	quizHandler    *quizHTTP.QuizHandler

	quizRepositoryInit sync.Once
	transcriberInit    sync.Once
	quizGeneratorInit  sync.Once
	quizUseCaseInit    sync.Once
	quizHandlerInit    sync.Once
}

func (c *Container) collaboratorConfig(endpoint string) quizService.CollaboratorConfig {
	return quizService.CollaboratorConfig{
		Endpoint: endpoint,
		Timeout:  c.config.CollaboratorTimeout,
		RetryMax: c.config.CollaboratorRetryMax,
	}
}

// QuizRepository returns the quiz repository for the configured driver.
func (c *Container) QuizRepository() (quizUseCase.QuizRepository, error) {
	err := c.lazy(&c.quiz.quizRepositoryInit, "quizRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for quiz repository: %w", err)
		}

		switch c.config.DBDriver {
		case "mysql":
			c.quiz.quizRepository = quizRepository.NewMySQLQuizRepository(db)
		case "postgres":
			c.quiz.quizRepository = quizRepository.NewPostgreSQLQuizRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.quiz.quizRepository, nil
}

// Transcriber returns the transcription collaborator client.
func (c *Container) Transcriber() (quizService.Transcriber, error) {
	err := c.lazy(&c.quiz.transcriberInit, "transcriber", func() error {
		if c.config.TranscriberURL == "" {
			return fmt.Errorf("transcriber url is required")
		}
		c.quiz.transcriber = quizService.NewHTTPTranscriber(
			c.collaboratorConfig(c.config.TranscriberURL),
			c.Logger(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.quiz.transcriber, nil
}

// QuizGenerator returns the quiz generation collaborator for QuizGeneratorBackend.
func (c *Container) QuizGenerator() (quizService.QuizGenerator, error) {
	err := c.lazy(&c.quiz.quizGeneratorInit, "quizGenerator", func() error {
		switch c.config.QuizGeneratorBackend {
		case "gemini":
			generator, err := quizService.NewGeminiQuizGenerator(context.Background(), quizService.GeminiConfig{
				APIKey:  c.config.GeminiAPIKey,
				Model:   c.config.GeminiModel,
				BaseURL: c.config.GeminiBaseURL,
				Timeout: c.config.CollaboratorTimeout,
			})
			if err != nil {
				return err
			}
			c.quiz.quizGenerator = generator
		case "", "http":
			if c.config.QuizGeneratorURL == "" {
				return fmt.Errorf("quiz generator url is required")
			}
			c.quiz.quizGenerator = quizService.NewHTTPQuizGenerator(
				c.collaboratorConfig(c.config.QuizGeneratorURL),
				c.Logger(),
			)
		default:
			return fmt.Errorf("unsupported quiz generator backend: %s", c.config.QuizGeneratorBackend)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.quiz.quizGenerator, nil
}

// QuizUseCase returns the quiz use case, wrapped with metrics when enabled.
func (c *Container) QuizUseCase() (quizUseCase.UseCase, error) {
	err := c.lazy(&c.quiz.quizUseCaseInit, "quizUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for quiz use case: %w", err)
		}
		repo, err := c.QuizRepository()
		if err != nil {
			return fmt.Errorf("failed to get quiz repository for quiz use case: %w", err)
		}
		transcriber, err := c.Transcriber()
		if err != nil {
			return fmt.Errorf("failed to get transcriber for quiz use case: %w", err)
		}
		generator, err := c.QuizGenerator()
		if err != nil {
			return fmt.Errorf("failed to get quiz generator for quiz use case: %w", err)
		}

		useCase := quizUseCase.NewQuizUseCase(txManager, repo, transcriber, generator, c.Logger())

		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for quiz use case: %w", err)
			}
			useCase = quizUseCase.NewQuizUseCaseWithMetrics(useCase, businessMetrics)
		}

		c.quiz.quizUseCase = useCase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.quiz.quizUseCase, nil
}

// QuizHandler returns the quiz endpoints handler.
func (c *Container) QuizHandler() (*quizHTTP.QuizHandler, error) {
	err := c.lazy(&c.quiz.quizHandlerInit, "quizHandler", func() error {
		useCase, err := c.QuizUseCase()
		if err != nil {
			return fmt.Errorf("failed to get quiz use case for quiz handler: %w", err)
		}
		c.quiz.quizHandler = quizHTTP.NewQuizHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.quiz.quizHandler, nil
}
