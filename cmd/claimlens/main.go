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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avallon/claimlens/ai"
	"github.com/avallon/claimlens/ai/openai"
	"github.com/avallon/claimlens/builder"
	"github.com/avallon/claimlens/config"
	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/corpus"
	"github.com/avallon/claimlens/intake"
	"github.com/avallon/claimlens/retriever"
	badgerstore "github.com/avallon/claimlens/storage/badger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; environment variables may be set directly.
	godotenv.Load()

	app := &cli.App{
		Name:  "claimlens",
		Usage: "Insurance claim analysis with similarity retrieval over past cases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build-index",
				Usage:  "Embed a labeled corpus and persist a searchable index snapshot",
				Action: buildIndexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Usage:    "Path to the past-claims JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory to write the index snapshot (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of transcripts to embed in each batch",
						Value: builder.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N cases",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: builder.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Find past cases similar to a transcript",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory holding the index snapshot (overrides config)",
					},
					&cli.StringFlag{
						Name:     "text",
						Aliases:  []string{"t"},
						Usage:    "Claim transcript to query with",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Number of similar cases to return",
						Value:   3,
					},
				},
			},
			{
				Name:   "process",
				Usage:  "Run a transcript through extraction, classification and retrieval",
				Action: processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the claims database directory (overrides config)",
					},
					&cli.StringFlag{
						Name:  "index-dir",
						Usage: "Directory holding the index snapshot (overrides config)",
					},
					&cli.StringFlag{
						Name:    "transcript",
						Aliases: []string{"t"},
						Usage:   "Claim transcript text",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the transcript from a file",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored claims, newest first",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the claims database directory (overrides config)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show claims with this status",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of claims to show (0 = all)",
						Value: 20,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show a stored claim in full",
				Action:    showCommand,
				ArgsUsage: "<claim-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the claims database directory (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the YAML config and applies command-line overrides.
func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dir := c.String("index-dir"); dir != "" {
		cfg.Index.Dir = dir
	}
	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	return cfg, nil
}

func aiConfig(cfg *config.AppConfig) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithClassifierHost(cfg.AI.ClassifierHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithClassifierModel(cfg.AI.ClassifierModel),
		ai.WithAPIToken(cfg.AI.APIToken),
		ai.WithDimension(cfg.AI.Dimension),
	)
}

func buildIndexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	crp, err := corpus.Load(c.String("corpus"))
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	progress := builder.NewProgressTracker(os.Stderr, crp.Len(), c.Int("report-interval"))
	b, err := builder.New(embedder, embedder.Model(),
		builder.WithBatchSize(c.Int("batch-size")),
		builder.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		builder.WithProgress(progress),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Corpus: %s (%d cases, %s)\n", c.String("corpus"), crp.Len(), crp.LabelSummary())
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	ix, err := b.BuildAndSave(ctx, crp, cfg.Index.Dir)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Printf("Built index: %d cases, dimension %d, saved to %s\n", ix.Len(), ix.Dim(), cfg.Index.Dir)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	embedder, err := openai.NewEmbedder(aiConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	ret, err := retriever.New(embedder, embedder.Model())
	if err != nil {
		return err
	}
	if err := ret.Load(cfg.Index.Dir); err != nil {
		return err
	}

	results, err := ret.QuerySimilar(ctx, c.String("text"), c.Int("k"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No similar cases found (empty index).")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%s] %s (similarity %.4f)\n   %s\n",
			i+1, result.Label, result.CaseID, result.Similarity, result.Preview)
	}
	return nil
}

func processCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	transcript := c.String("transcript")
	if file := c.String("file"); file != "" {
		if transcript != "" {
			return fmt.Errorf("use either --transcript or --file, not both")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read transcript file: %w", err)
		}
		transcript = string(data)
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("a transcript is required: pass --transcript or --file")
	}

	provider, err := openai.NewProvider(aiConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	embedder := provider.Embedder()
	ret, err := retriever.New(embedder, embedder.Model())
	if err != nil {
		return err
	}
	if err := ret.Load(cfg.Index.Dir); err != nil {
		return err
	}

	backend, err := badgerstore.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badgerstore.NewClaimRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	opts := []intake.Option{intake.WithTopK(cfg.Intake.TopK)}
	if cfg.Intake.PoolSize > 0 {
		opts = append(opts, intake.WithPoolSize(cfg.Intake.PoolSize))
	}
	pipeline, err := intake.NewPipeline(repo, provider, ret, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	claim, err := pipeline.Process(ctx, transcript)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	printClaim(claim)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	backend, err := badgerstore.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badgerstore.NewClaimRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	var claims []*core.Claim
	if statusStr := c.String("status"); statusStr != "" {
		status := core.ClaimStatus(strings.ToLower(statusStr))
		if err := core.ValidateStatus(status); err != nil {
			return err
		}
		claims, err = repo.ListClaimsByStatus(ctx, status, c.Int("limit"))
	} else {
		claims, err = repo.ListClaims(ctx, c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list claims: %w", err)
	}

	if len(claims) == 0 {
		fmt.Println("No claims stored.")
		return nil
	}

	for _, claim := range claims {
		label := string(claim.Classification.Label)
		if label == "" {
			label = "-"
		}
		fmt.Printf("%-8d %-10s %-11s %s  %s\n",
			claim.Id, claim.Status, label,
			claim.CreatedAt.Format(time.RFC3339),
			core.TruncatePreview(claim.Transcript))
	}
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one claim ID argument")
	}
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid claim ID %q: %w", c.Args().First(), err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	backend, err := badgerstore.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badgerstore.NewClaimRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	claim, err := repo.GetClaim(ctx, core.ID(id))
	if err != nil {
		return err
	}

	printClaim(claim)
	return nil
}

func printClaim(claim *core.Claim) {
	out, err := json.MarshalIndent(claim, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", claim)
		return
	}
	fmt.Println(string(out))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
