package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/quizly/internal/auth/http"
	authRepository "github.com/allisson/quizly/internal/auth/repository"
	authService "github.com/allisson/quizly/internal/auth/service"
	authUseCase "github.com/allisson/quizly/internal/auth/usecase"
)

const blacklistKeyPrefix = "quizly:blacklist:"

type authComponents struct {
	tokenCodec      authService.TokenCodec
	passwordService authService.PasswordService
	tokenRepository authUseCase.TokenRepository
	blacklistCache  authUseCase.BlacklistCache
	tokenStore      authUseCase.TokenStore
	sessionUseCase  authUseCase.SessionUseCase
	sessionHandler  *authHTTP.SessionHandler

	tokenCodecInit      sync.Once
	passwordServiceInit sync.Once
	tokenRepositoryInit sync.Once
	blacklistCacheInit  sync.Once
	tokenStoreInit      sync.Once
	sessionUseCaseInit  sync.Once
	sessionHandlerInit  sync.Once
}

// TokenCodec returns the JWT codec for access and refresh tokens.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	err := c.lazy(&c.auth.tokenCodecInit, "tokenCodec", func() error {
		codec, err := authService.NewTokenCodec(authService.TokenCodecConfig{
			Secret:     []byte(c.config.JWTSecret),
			Issuer:     c.config.JWTIssuer,
			AccessTTL:  c.config.AccessTokenExpiration,
			RefreshTTL: c.config.RefreshTokenExpiration,
		})
		if err != nil {
			return fmt.Errorf("failed to create token codec: %w", err)
		}
		c.auth.tokenCodec = codec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.tokenCodec, nil
}

// PasswordService returns the Argon2id password service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	err := c.lazy(&c.auth.passwordServiceInit, "passwordService", func() error {
		passwords, err := authService.NewPasswordService()
		if err != nil {
			return fmt.Errorf("failed to create password service: %w", err)
		}
		c.auth.passwordService = passwords
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.passwordService, nil
}

// TokenRepository returns the outstanding/blacklisted token repository for the configured driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	err := c.lazy(&c.auth.tokenRepositoryInit, "tokenRepository", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for token repository: %w", err)
		}

		switch c.config.DBDriver {
		case "mysql":
			c.auth.tokenRepository = authRepository.NewMySQLTokenRepository(db)
		case "postgres":
			c.auth.tokenRepository = authRepository.NewPostgreSQLTokenRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.tokenRepository, nil
}

// BlacklistCache returns the Redis blacklist cache, or nil when Redis is not configured.
func (c *Container) BlacklistCache() (authUseCase.BlacklistCache, error) {
	err := c.lazy(&c.auth.blacklistCacheInit, "blacklistCache", func() error {
		client, err := c.RedisClient()
		if err != nil {
			return fmt.Errorf("failed to get redis client for blacklist cache: %w", err)
		}
		if client == nil {
			return nil
		}
		c.auth.blacklistCache = authRepository.NewRedisBlacklistCache(client, blacklistKeyPrefix)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.blacklistCache, nil
}

// TokenStore returns the token store.
func (c *Container) TokenStore() (authUseCase.TokenStore, error) {
	err := c.lazy(&c.auth.tokenStoreInit, "tokenStore", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for token store: %w", err)
		}
		repo, err := c.TokenRepository()
		if err != nil {
			return fmt.Errorf("failed to get token repository for token store: %w", err)
		}
		cache, err := c.BlacklistCache()
		if err != nil {
			return fmt.Errorf("failed to get blacklist cache for token store: %w", err)
		}

		c.auth.tokenStore = authUseCase.NewTokenStore(
			txManager,
			repo,
			cache,
			c.config.RefreshTokenExpiration,
			c.Logger(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.tokenStore, nil
}

// SessionUseCase returns the session use case, wrapped with metrics when enabled.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	err := c.lazy(&c.auth.sessionUseCaseInit, "sessionUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for session use case: %w", err)
		}
		users, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for session use case: %w", err)
		}
		store, err := c.TokenStore()
		if err != nil {
			return fmt.Errorf("failed to get token store for session use case: %w", err)
		}
		codec, err := c.TokenCodec()
		if err != nil {
			return fmt.Errorf("failed to get token codec for session use case: %w", err)
		}
		passwords, err := c.PasswordService()
		if err != nil {
			return fmt.Errorf("failed to get password service for session use case: %w", err)
		}

		useCase := authUseCase.NewSessionUseCase(
			authUseCase.SessionConfig{RotateRefreshTokens: c.config.RotateRefreshTokens},
			txManager,
			users,
			store,
			codec,
			passwords,
			c.Logger(),
		)

		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for session use case: %w", err)
			}
			useCase = authUseCase.NewSessionUseCaseWithMetrics(useCase, businessMetrics)
		}

		c.auth.sessionUseCase = useCase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.sessionUseCase, nil
}

// SessionHandler returns the login/refresh/logout handler.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	err := c.lazy(&c.auth.sessionHandlerInit, "sessionHandler", func() error {
		sessions, err := c.SessionUseCase()
		if err != nil {
			return fmt.Errorf("failed to get session use case for session handler: %w", err)
		}

		cookies := authHTTP.NewCookieConfig(
			c.config.CookieSecure,
			c.config.CookieDomain,
			c.config.GetCookieSameSite(),
		)
		c.auth.sessionHandler = authHTTP.NewSessionHandler(sessions, cookies, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.auth.sessionHandler, nil
}
