// cmd/container.go
//
// Root composition root. Owns infrastructure (DB, Redis, email provider) and
// wires the auth modules. This is the only place that knows about ALL modules.
package main

import (
	"context"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/account/accountinfra"
	"github.com/Abraxas-365/gatekeeper/pkg/config"
	"github.com/Abraxas-365/gatekeeper/pkg/logx"
	"github.com/Abraxas-365/gatekeeper/pkg/notifx"
	"github.com/Abraxas-365/gatekeeper/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/gatekeeper/pkg/notifx/notifxses"
	"github.com/Abraxas-365/gatekeeper/pkg/session"
	"github.com/Abraxas-365/gatekeeper/pkg/session/sessioninfra"
	"github.com/Abraxas-365/gatekeeper/pkg/session/sessionsrv"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa/twofainfra"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and composed module services.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB       *sqlx.DB
	Redis    *redis.Client
	Notifier *notifx.Client

	// Auth modules
	Hasher          *account.Hasher
	UserStore       account.UserStore
	CodeStore       twofa.CodeStore
	BannedStore     session.BannedTokenStore
	TokenService    *session.JWTService
	SessionService  *sessionsrv.Service
	SessionHandlers *sessionsrv.Handlers
	TokenMiddleware *session.TokenMiddleware
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: DB, Redis, email provider
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	if c.Config.Stores.UserStoreMode == "postgres" {
		db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db
		logx.Info("  ✅ Database connected")
	}

	if c.Config.Stores.CacheMode == "redis" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		logx.Info("  ✅ Redis connected")
	}

	c.initNotifier()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initNotifier() {
	var provider notifx.EmailSender

	switch c.Config.Notifx.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(c.Config.Notifx.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), c.Config.Notifx.FromAddress)
		logx.Infof("  ✅ SES email provider configured (region: %s)", c.Config.Notifx.AWSRegion)

	case "console":
		provider = notifxconsole.NewConsoleProvider()
		logx.Info("  ✅ Console email provider configured (dev mode)")

	default:
		logx.Fatalf("Unknown NOTIFX_PROVIDER: %s (use 'console' or 'ses')", c.Config.Notifx.Provider)
	}

	c.Notifier = notifx.NewClient(provider)
	if err := c.Notifier.RegisterTemplate(sessionsrv.TwoFATemplateName, sessionsrv.TwoFATemplate); err != nil {
		logx.Fatalf("Failed to register 2FA email template: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	if c.Config.Auth.JWTSecret == "" {
		logx.Fatal("JWT_SECRET must be set")
	}

	c.Hasher = account.NewHasher(account.DefaultArgon2idParams(), c.Config.Auth.HashWorkers)

	switch c.Config.Stores.UserStoreMode {
	case "postgres":
		c.UserStore = accountinfra.NewPostgresUserStore(c.DB, c.Hasher)
	case "memory":
		c.UserStore = accountinfra.NewMemoryUserStore(c.Hasher)
	default:
		logx.Fatalf("Unknown USERSTORE_MODE: %s (use 'memory' or 'postgres')", c.Config.Stores.UserStoreMode)
	}

	switch c.Config.Stores.CacheMode {
	case "redis":
		c.CodeStore = twofainfra.NewRedisCodeStore(c.Redis, c.Config.Auth.TwoFACodeTTL)
		c.BannedStore = sessioninfra.NewRedisBannedTokenStore(c.Redis, c.Config.Auth.TokenTTL)
	case "memory":
		c.CodeStore = twofainfra.NewMemoryCodeStore(c.Config.Auth.TwoFACodeTTL)
		c.BannedStore = sessioninfra.NewMemoryBannedTokenStore(c.Config.Auth.TokenTTL)
	default:
		logx.Fatalf("Unknown CACHE_MODE: %s (use 'memory' or 'redis')", c.Config.Stores.CacheMode)
	}

	c.TokenService = session.NewJWTService(
		c.Config.Auth.JWTSecret,
		c.Config.Auth.TokenTTL,
		c.Config.Auth.Issuer,
		c.BannedStore,
	)

	c.SessionService = sessionsrv.NewService(
		c.UserStore,
		c.CodeStore,
		c.TokenService,
		c.BannedStore,
		c.Notifier,
	)
	c.SessionHandlers = sessionsrv.NewHandlers(c.SessionService, c.Config.Auth.TokenTTL)
	c.TokenMiddleware = session.NewTokenMiddleware(c.TokenService)

	logx.Infof("  ✅ Auth modules wired (users: %s, cache: %s)",
		c.Config.Stores.UserStoreMode, c.Config.Stores.CacheMode)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
