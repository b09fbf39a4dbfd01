package recommendation

import (
	"fmt"
	"strconv"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
)

// DefaultCatalogPath is used when no catalog path is configured
const DefaultCatalogPath = "data/items.csv"

// CatalogPath returns the configured catalog path or the default
func CatalogPath(cfg *config.CatalogConfig) string {
	if cfg == nil || cfg.Path == "" {
		return DefaultCatalogPath
	}
	return cfg.Path
}

// OptionsFromConfig parses the catalog config into engine options.
// An empty worker count lets the index build pick one per CPU.
func OptionsFromConfig(cfg *config.CatalogConfig) (EngineOptions, error) {
	var opts EngineOptions
	if cfg == nil || cfg.BuildWorkers == "" {
		return opts, nil
	}

	workers, err := strconv.Atoi(cfg.BuildWorkers)
	if err != nil || workers < 1 {
		return opts, fmt.Errorf("invalid build workers '%s'", cfg.BuildWorkers)
	}
	opts.BuildWorkers = workers
	return opts, nil
}
