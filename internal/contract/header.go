package contract

import (
	"fmt"
	"path/filepath"
)

// LogAnalysisHeader prints a concise, 2-line header for each pipeline run.
func LogAnalysisHeader(cfg *Config) {
	dataName := filepath.Base(cfg.DataDir)
	if dataName == "" || dataName == "." {
		dataName = "current"
	}

	season := "all seasons"
	if cfg.Season != 0 {
		season = fmt.Sprintf("season %d", cfg.Season)
	}

	if cfg.UseEmojis {
		fmt.Printf("🏀 Data: %s (%s)\n", dataName, season)
		fmt.Printf("⚙️  Workers: %d, cache: %s\n", cfg.Workers, cfg.CacheBackend)
	} else {
		fmt.Printf("Data: %s (%s)\n", dataName, season)
		fmt.Printf("Workers: %d, cache: %s\n", cfg.Workers, cfg.CacheBackend)
	}
}
