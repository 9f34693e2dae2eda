// Package main provides the API server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	userapp "github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/config"
	httphandler "github.com/hdmon/uaa/internal/handler/http"
	"github.com/hdmon/uaa/internal/infrastructure/cache"
	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
	"github.com/hdmon/uaa/internal/infrastructure/mail"
	mongodbinfra "github.com/hdmon/uaa/internal/infrastructure/mongodb"
	"github.com/hdmon/uaa/internal/infrastructure/oidc"
	"github.com/hdmon/uaa/internal/infrastructure/repository/mongodb"
	"github.com/hdmon/uaa/internal/middleware"
)

// Container initialization timeouts.
const (
	containerInitTimeout   = 30 * time.Second
	redisPingTimeout       = 5 * time.Second
	healthPingTimeout      = 2 * time.Second
	mongoDisconnectTimeout = 10 * time.Second
)

// Container holds all application dependencies and manages their lifecycle.
// It implements httpserver.HealthChecker for unified health endpoint support.
type Container struct {
	// Configuration
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	MongoDB     *mongo.Client
	MongoDBName string
	Redis       *redis.Client

	// Repositories and caches
	UserRepo       *mongodb.MongoUserRepository
	ExistsCache    *cache.RedisExistenceCache
	RateLimitStore *cache.RedisRateLimitStore

	// Outbound clients
	MailRelay    *mail.RelayClient
	JWTValidator oidc.JWTValidator // nil when token validation is not configured

	// Application services
	UserService *userapp.Service

	// HTTP Handlers
	UserHandler      *httphandler.UserHandler
	DirectoryHandler *httphandler.DirectoryHandler

	// Auth middleware components
	TokenValidator middleware.TokenValidator
}

// Ensure Container implements httpserver.HealthChecker.
var _ httpserver.HealthChecker = (*Container)(nil)

// ContainerOption configures the Container.
type ContainerOption func(*Container)

// WithLogger sets a custom logger for the container.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config, opts ...ContainerOption) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.setupInfrastructure(); err != nil {
		// Clean up any partially initialized resources
		_ = c.Close()
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	c.setupRepositories()

	if err := c.setupTokenValidator(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to setup token validator: %w", err)
	}

	c.setupApplicationServices()
	c.setupHTTPHandlers()

	if err := c.validateWiring(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("wiring validation failed: %w", err)
	}

	return c, nil
}

// validateWiring ensures all required dependencies are properly initialized.
func (c *Container) validateWiring() error {
	var errs []error

	if c.MongoDB == nil {
		errs = append(errs, errors.New("mongodb client not initialized"))
	}
	if c.Redis == nil {
		errs = append(errs, errors.New("redis client not initialized"))
	}
	if c.UserRepo == nil {
		errs = append(errs, errors.New("user repository not initialized"))
	}
	if c.UserService == nil {
		errs = append(errs, errors.New("user service not initialized"))
	}
	if c.UserHandler == nil {
		errs = append(errs, errors.New("user handler not initialized"))
	}
	if c.DirectoryHandler == nil {
		errs = append(errs, errors.New("directory handler not initialized"))
	}
	if c.Config.IsProduction() && c.TokenValidator == nil {
		errs = append(errs, errors.New("token validator is required in production"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// setupInfrastructure initializes infrastructure components (MongoDB, Redis).
func (c *Container) setupInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), containerInitTimeout)
	defer cancel()

	if err := c.setupMongoDB(ctx); err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}

	if err := c.setupRedis(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	return nil
}

// setupMongoDB initializes the MongoDB client and creates the backstop indexes.
func (c *Container) setupMongoDB(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(c.Config.MongoDB.URI).
		SetMaxPoolSize(c.Config.MongoDB.MaxPoolSize)

	client, connectErr := mongo.Connect(clientOpts)
	if connectErr != nil {
		return fmt.Errorf("failed to connect: %w", connectErr)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.MongoDB = client
	c.MongoDBName = c.Config.MongoDB.Database

	c.Logger.InfoContext(ctx, "connected to MongoDB",
		slog.String("database", c.Config.MongoDB.Database),
	)

	// The unique indexes back the application-level uniqueness checks, so
	// they are created before the server takes traffic.
	db := client.Database(c.Config.MongoDB.Database)
	indexCtx, indexCancel := context.WithTimeout(ctx, c.Config.MongoDB.Timeout)
	defer indexCancel()

	if indexErr := mongodbinfra.CreateAllIndexes(indexCtx, db); indexErr != nil {
		return fmt.Errorf("failed to create indexes: %w", indexErr)
	}

	c.Logger.InfoContext(ctx, "MongoDB indexes created successfully")

	return nil
}

// setupRedis initializes the Redis client.
func (c *Container) setupRedis(ctx context.Context) error {
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
		PoolSize: c.Config.Redis.PoolSize,
	})

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := c.Redis.Ping(pingCtx).Err(); pingErr != nil {
		return fmt.Errorf("failed to ping: %w", pingErr)
	}

	c.Logger.InfoContext(ctx, "connected to Redis",
		slog.String("addr", c.Config.Redis.Addr),
	)

	return nil
}

// setupRepositories initializes the user repository and the Redis-backed caches.
func (c *Container) setupRepositories() {
	db := c.MongoDB.Database(c.MongoDBName)

	sequence := mongodb.NewSequenceAllocator(db.Collection(mongodbinfra.CollectionCounters))

	c.UserRepo = mongodb.NewMongoUserRepository(
		db.Collection(mongodbinfra.CollectionUsers),
		sequence,
		mongodb.WithUserRepoLogger(c.Logger),
	)

	c.ExistsCache = cache.NewRedisExistenceCache(cache.ExistenceCacheConfig{
		Client:    c.Redis,
		KeyPrefix: c.Config.Cache.KeyPrefix,
		TTL:       c.Config.Cache.ExistsTTL,
	})

	c.RateLimitStore = cache.NewRedisRateLimitStore(c.Redis, "")

	c.Logger.Debug("repositories initialized")
}

// setupTokenValidator initializes the OIDC token validator when configured.
// Without a JWKS endpoint the admin routes stay open, which validateWiring
// rejects in production.
func (c *Container) setupTokenValidator() error {
	if !c.Config.OIDC.Enabled() {
		c.Logger.Warn("OIDC not configured, token validation disabled")
		return nil
	}

	validator, err := oidc.NewJWTValidator(oidc.JWTValidatorConfig{
		JWKSURL:         c.Config.OIDC.JWKSURL,
		Issuer:          c.Config.OIDC.Issuer,
		Audience:        c.Config.OIDC.Audience,
		Leeway:          c.Config.OIDC.Leeway,
		RefreshInterval: c.Config.OIDC.RefreshInterval,
		Logger:          c.Logger,
	})
	if err != nil {
		return err
	}

	c.JWTValidator = validator
	c.TokenValidator = middleware.NewOIDCTokenValidator(validator)

	c.Logger.Debug("token validator initialized",
		slog.String("issuer", c.Config.OIDC.Issuer),
	)

	return nil
}

// setupApplicationServices wires the use cases into the service facade.
func (c *Container) setupApplicationServices() {
	var notifier userapp.ActivationSender
	if c.Config.Mail.Enabled() {
		c.MailRelay = mail.NewRelayClient(mail.RelayClientConfig{
			BaseURL: c.Config.Mail.BaseURL,
			APIKey:  c.Config.Mail.APIKey,
		})
		notifier = c.MailRelay
		c.Logger.Debug("activation relay initialized",
			slog.String("base_url", c.Config.Mail.BaseURL),
		)
	} else {
		c.Logger.Warn("mail relay not configured, activation notifications disabled")
	}

	c.UserService = userapp.NewService(userapp.ServiceDeps{
		CreateUser:        userapp.NewCreateUserUseCase(c.UserRepo, notifier, c.Logger),
		UpdateUser:        userapp.NewUpdateUserUseCase(c.UserRepo),
		DeleteUser:        userapp.NewDeleteUserUseCase(c.UserRepo, c.ExistsCache, c.Logger),
		GetUserByLogin:    userapp.NewGetUserByLoginUseCase(c.UserRepo),
		GetUserByEmail:    userapp.NewGetUserByEmailUseCase(c.UserRepo),
		GetUserByMobile:   userapp.NewGetUserByMobileUseCase(c.UserRepo),
		GetUserByID:       userapp.NewGetUserByIDUseCase(c.UserRepo),
		CheckLoginExists:  userapp.NewCheckLoginExistsUseCase(c.UserRepo, c.ExistsCache, c.Logger),
		CheckMobileExists: userapp.NewCheckMobileExistsUseCase(c.UserRepo, c.ExistsCache, c.Logger),
		ListUsers:         userapp.NewListUsersUseCase(c.UserRepo),
	})

	c.Logger.Debug("application services initialized")
}

// setupHTTPHandlers initializes the HTTP handlers.
func (c *Container) setupHTTPHandlers() {
	c.UserHandler = httphandler.NewUserHandler(c.UserService)
	c.DirectoryHandler = httphandler.NewDirectoryHandler(c.UserService)

	c.Logger.Debug("HTTP handlers initialized")
}

// IsReady implements httpserver.HealthChecker.
func (c *Container) IsReady(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	if c.MongoDB == nil || c.MongoDB.Ping(pingCtx, nil) != nil {
		return false
	}
	if c.Redis == nil || c.Redis.Ping(pingCtx).Err() != nil {
		return false
	}
	return true
}

// GetHealthStatus implements httpserver.HealthChecker.
func (c *Container) GetHealthStatus(ctx context.Context) []httpserver.ComponentStatus {
	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	components := make([]httpserver.ComponentStatus, 0, 2)

	mongoStatus := httpserver.ComponentStatus{Name: "mongodb", Status: httpserver.StatusHealthy}
	if c.MongoDB == nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = "not initialized"
	} else if err := c.MongoDB.Ping(pingCtx, nil); err != nil {
		mongoStatus.Status = httpserver.StatusUnhealthy
		mongoStatus.Message = err.Error()
	}
	components = append(components, mongoStatus)

	redisStatus := httpserver.ComponentStatus{Name: "redis", Status: httpserver.StatusHealthy}
	if c.Redis == nil {
		redisStatus.Status = httpserver.StatusUnhealthy
		redisStatus.Message = "not initialized"
	} else if err := c.Redis.Ping(pingCtx).Err(); err != nil {
		redisStatus.Status = httpserver.StatusUnhealthy
		redisStatus.Message = err.Error()
	}
	components = append(components, redisStatus)

	return components
}

// Close releases all container resources in reverse initialization order.
func (c *Container) Close() error {
	var errs []error

	if c.JWTValidator != nil {
		if err := c.JWTValidator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close JWT validator: %w", err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if c.MongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()

		if err := c.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect mongodb: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.Logger.Info("container closed")
	return nil
}
