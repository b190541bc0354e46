// Copyright 2025 Avallon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the application configuration from a YAML file,
// falling back to defaults tuned for a local Ollama deployment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AIConfig configures the AI service endpoints and models. APIToken is
// usually supplied through the environment rather than the file, so the
// file can be committed without credentials.
type AIConfig struct {
	EmbeddingHost   string `yaml:"embedding_host"`
	ClassifierHost  string `yaml:"classifier_host"`
	EmbeddingModel  string `yaml:"embedding_model"`
	ClassifierModel string `yaml:"classifier_model"`
	APIToken        string `yaml:"api_token"`
	Dimension       int    `yaml:"dimension"`
}

// IndexConfig configures the vector index snapshot location.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig configures the claims database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// IntakeConfig configures the intake pipeline.
type IntakeConfig struct {
	TopK     int `yaml:"top_k"`
	PoolSize int `yaml:"pool_size"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	AI      AIConfig      `yaml:"ai"`
	Index   IndexConfig   `yaml:"index"`
	Storage StorageConfig `yaml:"storage"`
	Intake  IntakeConfig  `yaml:"intake"`
}

// Default returns the configuration used when no file is present:
// a local Ollama endpoint serving both models, and data under ./data.
func Default() *AppConfig {
	return &AppConfig{
		AI: AIConfig{
			EmbeddingHost:   "http://localhost:11434/v1",
			ClassifierHost:  "http://localhost:11434/v1",
			EmbeddingModel:  "all-minilm",
			ClassifierModel: "qwen2.5:3b",
			Dimension:       384,
		},
		Index:   IndexConfig{Dir: "data/index"},
		Storage: StorageConfig{Path: "data/claims"},
		Intake:  IntakeConfig{TopK: 3, PoolSize: 0},
	}
}

// Load reads a config from the specified path. If the file does not exist,
// defaults are used. Values absent from the file fall back to defaults, and
// CLAIMLENS_* environment variables override both, so credentials and
// per-deployment endpoints can live in the environment (or a .env file
// loaded by the binary) instead of the config file.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		applyDefaults(cfg)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every required field is usable, naming the field in
// the error.
func (c *AppConfig) Validate() error {
	if c.AI.EmbeddingHost == "" {
		return errors.New("ai.embedding_host cannot be empty")
	}
	if c.AI.ClassifierHost == "" {
		return errors.New("ai.classifier_host cannot be empty")
	}
	if c.AI.EmbeddingModel == "" {
		return errors.New("ai.embedding_model cannot be empty")
	}
	if c.AI.ClassifierModel == "" {
		return errors.New("ai.classifier_model cannot be empty")
	}
	if c.AI.Dimension <= 0 {
		return fmt.Errorf("ai.dimension must be positive, got %d", c.AI.Dimension)
	}
	if c.Index.Dir == "" {
		return errors.New("index.dir cannot be empty")
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path cannot be empty")
	}
	if c.Intake.TopK <= 0 {
		return fmt.Errorf("intake.top_k must be positive, got %d", c.Intake.TopK)
	}
	if c.Intake.PoolSize < 0 {
		return fmt.Errorf("intake.pool_size cannot be negative, got %d", c.Intake.PoolSize)
	}
	return nil
}

// applyDefaults fills fields the YAML file left at zero values. A zero
// intake.pool_size is intentional (auto-size by CPU count) and stays.
func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if cfg.AI.ClassifierHost == "" {
		cfg.AI.ClassifierHost = def.AI.ClassifierHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.ClassifierModel == "" {
		cfg.AI.ClassifierModel = def.AI.ClassifierModel
	}
	if cfg.AI.Dimension == 0 {
		cfg.AI.Dimension = def.AI.Dimension
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = def.Index.Dir
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = def.Storage.Path
	}
	if cfg.Intake.TopK == 0 {
		cfg.Intake.TopK = def.Intake.TopK
	}
}

// applyEnv overrides config fields from the environment. An empty variable
// counts as unset. OPENAI_API_KEY is honored as the conventional name;
// CLAIMLENS_API_TOKEN wins when both are set.
func applyEnv(cfg *AppConfig) {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent(&cfg.AI.EmbeddingHost, "CLAIMLENS_EMBEDDING_HOST")
	setIfPresent(&cfg.AI.ClassifierHost, "CLAIMLENS_CLASSIFIER_HOST")
	setIfPresent(&cfg.AI.EmbeddingModel, "CLAIMLENS_EMBEDDING_MODEL")
	setIfPresent(&cfg.AI.ClassifierModel, "CLAIMLENS_CLASSIFIER_MODEL")
	setIfPresent(&cfg.AI.APIToken, "OPENAI_API_KEY")
	setIfPresent(&cfg.AI.APIToken, "CLAIMLENS_API_TOKEN")
	setIfPresent(&cfg.Index.Dir, "CLAIMLENS_INDEX_DIR")
	setIfPresent(&cfg.Storage.Path, "CLAIMLENS_DB_PATH")
}
