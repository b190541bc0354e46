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


// Package ai provides abstractions for the AI services used by claimlens.
//
// This package defines interfaces for text embeddings, claim field
// extraction and claim classification. It follows the dependency inversion
// principle, allowing the retrieval core and the intake pipeline to depend
// on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - FieldExtractor: Pulls structured claim fields out of a transcript
//   - Classifier: Assigns a validity verdict to a claim
//
// Provider aggregates the three for convenient initialization and teardown.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and assert on call counts.
//
// # Grounding Contract
//
// Extractors and classifiers consume generative model output, which may
// hallucinate. Implementations must validate derived values against the
// source transcript and drop anything they cannot ground; defaults are never
// silently substituted for model failures.
package ai
