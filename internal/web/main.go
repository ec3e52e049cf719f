package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/directory"
	fiberlogger "github.com/attenda/attenda/internal/logger/adapter/fiber"
	"github.com/attenda/attenda/internal/web/handler/admin/leavetype"
	adminrole "github.com/attenda/attenda/internal/web/handler/admin/role"
	adminsetting "github.com/attenda/attenda/internal/web/handler/admin/setting"
	adminuser "github.com/attenda/attenda/internal/web/handler/admin/user"
	"github.com/attenda/attenda/internal/web/handler/leave"
	"github.com/attenda/attenda/internal/web/handler/login"
	"github.com/attenda/attenda/internal/web/handler/logout"
	"github.com/attenda/attenda/internal/web/handler/onduty"
	"github.com/attenda/attenda/internal/web/handler/profile"
	"github.com/attenda/attenda/internal/web/handler/reports"
	"github.com/attenda/attenda/internal/web/handler/timeoff"
	authmw "github.com/attenda/attenda/internal/web/middleware/auth"
	"github.com/attenda/attenda/internal/workflow"
)

const checkAlivePath = "/checkalive"

// Deps bundles the services the web layer exposes.
type Deps struct {
	DB       *gorm.DB
	Auth     *authz.Service
	Engine   *workflow.Engine
	Admin    *directory.Admin
	Provider *auth.LocalProvider
	Tokens   *auth.TokenService
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps.DB == nil || deps.Auth == nil || deps.Engine == nil {
		panic("web deps are incomplete")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAlivePath,
	}))

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Get(checkAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// auth middleware: session cookie or bearer token
	app.Use(authmw.New(deps.Tokens))

	// init handlers (they register their own routes with capability gates)
	if err := login.Handler.Init(app, cfg, deps.Provider, deps.Tokens, deps.Auth); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)
	profile.Handler.Init(app, cfg, deps.Provider)
	leave.Handler.Init(app, cfg, deps.Engine)
	onduty.Handler.Init(app, cfg, deps.Engine)
	timeoff.Handler.Init(app, cfg, deps.Engine)
	reports.Handler.Init(app, cfg, deps.Engine)
	adminuser.Handler.Init(app, cfg, deps.Admin, deps.Auth)
	adminrole.Handler.Init(app, cfg, deps.Admin, deps.Auth)
	leavetype.Handler.Init(app, cfg, deps.DB, deps.Auth)
	adminsetting.Handler.Init(app, cfg, deps.DB, deps.Auth)

	return service
}
