// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/attenda/attenda/internal/config"
)

// Engine names accepted in config DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// Create builds the Data Source Name from the configuration, matching the
// configured gorm engine.
func Create(cfg *config.Config) string {
	if cfg.DB.GormEngine == EnginePostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d %s",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.Extras,
		)
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}
