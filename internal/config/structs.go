package config

import (
	"time"

	"github.com/attenda/attenda/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Redis     Redis
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Redis holds the optional role cache settings. An empty Addr disables the
// cache and every role lookup goes to the database.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath       bool    // use clean path middleware to allow multi slash requests
	DisableRecover  bool    // disable recover middleware
	Domain          string  // domain name for the webserver
	Port            int     // listening port for the webserver
	ShutDownTime    int     // wait time for shutdown
	URL             string  // base url for the webserver
	TokenSigningKey string  // HMAC key for API bearer tokens
	TokenExpiry     time.Duration
	Session         Session // session settings
}
