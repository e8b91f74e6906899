package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/clutchmetrics/clutch/internal/contract"
	"github.com/clutchmetrics/clutch/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedBuildDataset builds the processed dataset, consulting the
// content-addressed cache first. The key hashes the raw file contents and
// the scoring configuration, so any input or weight change misses cleanly
// and no staleness window is needed.
func cachedBuildDataset(cfg *contract.Config, mgr contract.CacheManager) (*schema.Dataset, error) {
	store := mgr.GetDatasetStore()
	if store == nil {
		// Fallback to direct computation
		return buildDataset(cfg)
	}

	key, err := generateCacheKey(cfg)
	if err != nil {
		contract.LogWarn("Cache key generation failed", err)
		return buildDataset(cfg)
	}

	// Check for cache hit
	if dataset := checkCacheHit(store, key); dataset != nil {
		return dataset, nil
	}

	// Cache miss: compute and store
	return computeAndStore(cfg, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached dataset
func checkCacheHit(store contract.CacheStore, key string) *schema.Dataset {
	data, version, _, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version == currentCacheVersion {
		var dataset schema.Dataset
		if err := json.Unmarshal(data, &dataset); err == nil {
			return &dataset // Cache hit
		}
	}

	return nil // Cache miss (version mismatch or corrupt entry)
}

// computeAndStore builds the dataset and stores it in cache
func computeAndStore(cfg *contract.Config, store contract.CacheStore, key string) (*schema.Dataset, error) {
	dataset, err := buildDataset(cfg)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(dataset); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return dataset, nil
}

// generateCacheKey hashes the contents of the four raw sources plus the
// scoring configuration into a content address.
func generateCacheKey(cfg *contract.Config) (string, error) {
	hasher := sha256.New()

	for _, name := range []string{
		contract.GamesFile, contract.DetailsFile,
		contract.TeamsFile, contract.PlayersFile,
	} {
		f, err := os.Open(cfg.SourcePath(name))
		if err != nil {
			return "", err
		}
		_, copyErr := io.Copy(hasher, f)
		_ = f.Close()
		if copyErr != nil {
			return "", copyErr
		}
	}

	// Weight table in stable key order.
	keys := make([]string, 0, len(cfg.MetricWeights))
	for k := range cfg.MetricWeights {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(hasher, "%s=%.6f;", k, cfg.MetricWeights[schema.MetricKey(k)])
	}
	fmt.Fprintf(hasher, "margin=%d;threshold=%d", schema.ClutchMargin, schema.HighVolumeThreshold)

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
