package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type DedupConfig struct {
	RelatedThreshold   float64 `toml:"related_threshold"`
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
	SearchLimit        int     `toml:"search_limit"`
}

type ClusteringConfig struct {
	MaxNewCardsPerRun int  `toml:"max_new_cards_per_run"`
	UseClustering     bool `toml:"use_clustering"`
	UseLLMGrouping    bool `toml:"use_llm_grouping"`
}

type ConcurrencyConfig struct {
	PillarGroups    int     `toml:"pillar_groups"`
	EmbedRatePerSec float64 `toml:"embed_rate_per_sec"`
	EmbedBurst      int     `toml:"embed_burst"`
}

type CacheConfig struct {
	EmbeddingTTLMinutes    int `toml:"embedding_ttl_minutes"`
	CleanupIntervalMinutes int `toml:"cleanup_interval_minutes"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Dedup       DedupConfig       `toml:"dedup"`
	Clustering  ClusteringConfig  `toml:"clustering"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Cache       CacheConfig       `toml:"cache"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config usable without any config file on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Dedup.RelatedThreshold == 0 {
		c.Dedup.RelatedThreshold = 0.85
	}
	if c.Dedup.DuplicateThreshold == 0 {
		c.Dedup.DuplicateThreshold = 0.95
	}
	if c.Dedup.SearchLimit == 0 {
		c.Dedup.SearchLimit = 5
	}
	if c.Clustering.MaxNewCardsPerRun == 0 {
		c.Clustering.MaxNewCardsPerRun = 10
	}
	if c.Concurrency.PillarGroups == 0 {
		c.Concurrency.PillarGroups = 3
	}
	if c.Concurrency.EmbedRatePerSec == 0 {
		c.Concurrency.EmbedRatePerSec = 5
	}
	if c.Concurrency.EmbedBurst == 0 {
		c.Concurrency.EmbedBurst = 5
	}
	if c.Cache.EmbeddingTTLMinutes == 0 {
		c.Cache.EmbeddingTTLMinutes = 60
	}
	if c.Cache.CleanupIntervalMinutes == 0 {
		c.Cache.CleanupIntervalMinutes = 10
	}
}
