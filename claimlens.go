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


// Package claimlens ties the claim analysis components together behind a
// single entry point: claim storage, the AI provider, the similarity
// retriever and the intake pipeline.
package claimlens

import (
	"log/slog"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/ai/openai"
	"github.com/avallon/claimlens/intake"
	"github.com/avallon/claimlens/retriever"
	"github.com/avallon/claimlens/storage"
	"github.com/avallon/claimlens/storage/badger"
)

// System bundles the claim store, AI provider and retriever for a running
// deployment. Construct one with NewSystem, load an index, then create
// intake pipelines from it.
type System struct {
	backend   *badger.Backend
	claimRepo storage.ClaimRepository
	provider  ai.Provider
	retriever *retriever.Retriever
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from the AI config. Useful for tests with mock providers.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// NewSystem opens the claims database at dbPath and wires up the AI
// provider and an unloaded retriever. Call LoadIndex before serving
// similarity queries.
func NewSystem(dbPath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, err
	}

	claimRepo, err := badger.NewClaimRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			claimRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	// Pin the retriever to the embedder actually serving queries, which for
	// an injected provider may differ from the AI config.
	embedder := provider.Embedder()
	ret, err := retriever.New(embedder, embedder.Model())
	if err != nil {
		provider.Close()
		claimRepo.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:   backend,
		claimRepo: claimRepo,
		provider:  provider,
		retriever: ret,
		logger:    slog.Default(),
	}, nil
}

// Close releases every resource held by the system.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.claimRepo.Close(); err != nil {
		s.logger.Error("error closing claim repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// LoadIndex loads the index snapshot in dir into the retriever.
func (s *System) LoadIndex(dir string) error {
	return s.retriever.Load(dir)
}

// ClaimRepository returns the claim store.
func (s *System) ClaimRepository() storage.ClaimRepository {
	return s.claimRepo
}

// Retriever returns the similarity retriever.
func (s *System) Retriever() *retriever.Retriever {
	return s.retriever
}

// NewIntakePipeline creates an intake pipeline over the system's store,
// provider and retriever.
func (s *System) NewIntakePipeline(opts ...intake.Option) (*intake.Pipeline, error) {
	return intake.NewPipeline(s.claimRepo, s.provider, s.retriever, opts...)
}
