package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/goldbook/loanbook-cli/internal/config"
)

// Open builds the Source named by the config's driver.
func Open(ctx context.Context, cfg config.SourceConfig) (Source, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "xlsx":
		return NewXLSX(cfg.Path), nil
	default:
		return nil, eris.Errorf("source: unknown driver %q", cfg.Driver)
	}
}
