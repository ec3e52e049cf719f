// Package daemon wires the database, caches and services together and runs
// the web service.
package daemon

import (
	"fmt"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	requeststore "github.com/attenda/attenda/internal/db/controller/request"
	"github.com/attenda/attenda/internal/db/dsn"
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/directory"
	"github.com/attenda/attenda/internal/notify"
	"github.com/attenda/attenda/internal/web"
	"github.com/attenda/attenda/internal/web/session"
	"github.com/attenda/attenda/internal/workflow"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service finished its shutdown.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LeaveType{},
		&models.LeaveAllotment{},
		&models.LeaveRequest{},
		&models.OnDutyLog{},
		&models.OnDutyApproval{},
		&models.TimeOffLog{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	// Initialize fiber session store
	session.Init(sessionStorage(cfg))

	// optional redis role cache
	var redisClient *redis.Client

	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	dirStore := directory.NewStore(db, authz.NewRoleCache(redisClient, authz.DefaultRoleCacheTTL))
	authService := authz.NewService(dirStore)
	admin := directory.NewAdmin(db, dirStore, authService)
	engine := workflow.NewEngine(
		requeststore.NewStore(db),
		authService,
		dirStore,
		notify.New(notify.LogSink{}),
	)

	webService := web.New(cfg, web.Deps{
		DB:       db,
		Auth:     authService,
		Engine:   engine,
		Admin:    admin,
		Provider: auth.NewLocalProvider(db),
		Tokens: auth.NewTokenService(
			cfg.Webserver.TokenSigningKey,
			cfg.Webserver.TokenExpiry,
			cfg.Title,
		),
	})

	return &Daemon{
		webService: webService,
		cfg:        cfg,
	}
}

// openDialector picks the gorm driver matching the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.DB.GormEngine == dsn.EnginePostgres {
		return gormpostgres.Open(dsn.Create(cfg))
	}

	return gormmysql.Open(dsn.Create(cfg))
}

// sessionStorage picks the fiber storage backend matching the configured
// engine so sessions live next to the application data.
func sessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == dsn.EnginePostgres {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
