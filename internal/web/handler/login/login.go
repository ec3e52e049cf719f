// Package login provides the session and token login handlers.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/auth"
	"github.com/attenda/attenda/internal/authz"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/web/session"
)

const (
	// Path is the path to the session login endpoint.
	Path = "/login"

	// APIPath is the path to the token login endpoint for API clients.
	APIPath = "/api/login"
)

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	provider *auth.LocalProvider
	tokens   *auth.TokenService
	auth     *authz.Service
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	provider *auth.LocalProvider,
	tokens *auth.TokenService,
	authService *authz.Service,
) error {
	if app == nil || cfg == nil || provider == nil || tokens == nil || authService == nil {
		return errors.New("app, cfg, provider, tokens or authService is nil")
	}

	s.cfg = cfg
	s.provider = provider
	s.tokens = tokens
	s.auth = authService

	app.Post(Path, s.Post)
	app.Post(APIPath, s.PostAPI)

	return nil
}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Post handles a session login: valid credentials set a session cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	var body credentials
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	user, err := s.provider.Authenticate(body.Username, body.Password)
	if err != nil {
		return s.rejectCredentials(c, err)
	}

	// A session grants the web surface; roles without web access still log
	// in through the token endpoint for mobile clients.
	decision, err := s.auth.Evaluate(user.ID, authz.CapAccessWebApplication)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to evaluate web access")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternalServerError.Error()})
	}

	if !decision.Allowed() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ErrWebAccessDenied.Error()})
	}

	sessionID := session.GenerateSessionID()

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternalServerError.Error()})
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(fiber.Map{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// PostAPI handles a token login: valid credentials yield a bearer token.
func (s *Service) PostAPI(c *fiber.Ctx) error {
	var body credentials
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	user, err := s.provider.Authenticate(body.Username, body.Password)
	if err != nil {
		return s.rejectCredentials(c, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to issue token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternalServerError.Error()})
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// rejectCredentials maps authentication failures. Unknown user and wrong
// password collapse into one message so the endpoint does not leak which
// usernames exist.
func (s *Service) rejectCredentials(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": auth.ErrUserAccountDisabled.Error()})
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrInvalidCredentials.Error()})
	}

	log.Error().Err(err).Msg("login failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternalServerError.Error()})
}
