package app

import (
	"fmt"
	"sync"

	authUseCase "github.com/allisson/quizly/internal/auth/usecase"
	userHTTP "github.com/allisson/quizly/internal/user/http"
	userRepository "github.com/allisson/quizly/internal/user/repository"
	userUseCase "github.com/allisson/quizly/internal/user/usecase"
)

// userStore is served by one repository for both registration and session lookups.
type userStore interface {
	userUseCase.UserRepository
	authUseCase.UserRepository
}

type userComponents struct {
	userRepository userStore
	userUseCase    userUseCase.UseCase
	userHandler    *userHTTP.UserHandler

	userRepositoryInit sync.Once
	userUseCaseInit    sync.Once
	userHandlerInit    sync.Once
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userStore, error) {
	err := c.lazy(&c.user.userRepositoryInit, "userRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for user repository: %w", err)
		}

		switch c.config.DBDriver {
		case "mysql":
			c.user.userRepository = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.user.userRepository = userRepository.NewPostgreSQLUserRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.userRepository, nil
}

// UserUseCase returns the registration use case, wrapped with metrics when enabled.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	err := c.lazy(&c.user.userUseCaseInit, "userUseCase", func() error {
		repo, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for user use case: %w", err)
		}
		passwords, err := c.PasswordService()
		if err != nil {
			return fmt.Errorf("failed to get password service for user use case: %w", err)
		}

		useCase := userUseCase.NewUserUseCase(repo, passwords)

		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for user use case: %w", err)
			}
			useCase = userUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics)
		}

		c.user.userUseCase = useCase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.userUseCase, nil
}

// UserHandler returns the registration handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	err := c.lazy(&c.user.userHandlerInit, "userHandler", func() error {
		useCase, err := c.UserUseCase()
		if err != nil {
			return fmt.Errorf("failed to get user use case for user handler: %w", err)
		}
		c.user.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.userHandler, nil
}
