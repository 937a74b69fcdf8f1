//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/ae-conditions/internal/config"
	"github.com/oshokin/ae-conditions/internal/domain/catalog"
	"github.com/oshokin/ae-conditions/internal/logger"
)

// LoadCatalog reads the settings file, applies its log settings to the global
// logger and builds the catalog it describes.
func LoadCatalog(ctx context.Context, configPath string) (*config.Config, *catalog.Catalog, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	ApplyLogSettings(cfg)

	c, err := config.BuildCatalog(&cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	logger.DebugKV(ctx, "Catalog loaded",
		"config_path", configPath,
		"conditions", len(c.ConditionIDs()))

	return cfg, c, nil
}

// ApplyLogSettings switches the global logger to the level and format of cfg.
// Validated settings always parse.
func ApplyLogSettings(cfg *config.Config) {
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	format, _ := logger.ParseFormat(cfg.LogFormat)

	logger.SetLogger(logger.New(nil, format))
	logger.SetLevel(level)
}
