// Package mock provides test doubles for the ai package interfaces.
//
// The mocks default to deterministic behavior (hash-seeded vectors,
// keyword-driven verdicts) so tests are reproducible without external AI
// services, and expose function fields for injecting custom behavior.
package mock
