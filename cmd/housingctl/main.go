package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"housing-intel/internal/config"
	"housing-intel/internal/llm"
	"housing-intel/internal/logging"
	"housing-intel/internal/model"
	"housing-intel/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "housingctl",
		Short: "Housing intelligence platform admin tool",
	}

	rootCmd.AddCommand(
		initDBCmd(),
		seedCmd(),
		seedReviewsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and opens the database. Every subcommand starts here.
func setup() (*config.Config, *logrus.Logger, *repository.PostgresRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(&cfg.Logging)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, logger, repo, nil
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema (tables, indexes, pgvector extension)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, repo, err := setup()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(context.Background()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			logger.Info("Database schema created")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var properties int
	var reviewsPerArea int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample Lagos landlords, properties and reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, repo, err := setup()
			if err != nil {
				return err
			}
			defer repo.Close()

			return runSeed(context.Background(), repo, logger, properties, reviewsPerArea)
		},
	}

	cmd.Flags().IntVar(&properties, "properties", 80, "number of properties to create")
	cmd.Flags().IntVar(&reviewsPerArea, "reviews-per-area", 6, "number of tenant reviews per area")
	return cmd
}

func seedReviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-reviews",
		Short: "Embed unindexed reviews into the review vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, repo, err := setup()
			if err != nil {
				return err
			}
			defer repo.Close()

			if !cfg.OpenAI.Enabled {
				return fmt.Errorf("OPENAI_API_KEY is not set; cannot generate embeddings")
			}

			return runSeedReviews(context.Background(), cfg, logger, repo)
		},
	}
}

// runSeedReviews embeds every review without a vector_id and stores it in the
// review index. Safe to re-run; already-indexed reviews are skipped.
func runSeedReviews(ctx context.Context, cfg *config.Config, logger *logrus.Logger, repo *repository.PostgresRepository) error {
	reviews, err := repo.ListUnindexedReviews(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unindexed reviews: %w", err)
	}
	if len(reviews) == 0 {
		logger.Info("No unindexed reviews found")
		return nil
	}

	logger.WithField("count", len(reviews)).Info("Embedding reviews")

	client := llm.NewClient(&cfg.OpenAI, logger)
	index := repository.NewReviewIndex(repo.DB())

	texts := make([]string, len(reviews))
	for i, rv := range reviews {
		text := rv.ReviewText
		if rv.Pros != nil {
			text += " Pros: " + *rv.Pros
		}
		if rv.Cons != nil {
			text += " Cons: " + *rv.Cons
		}
		texts[i] = text
	}

	embeddings, err := client.CreateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding generation failed: %w", err)
	}

	start := time.Now()
	for i, rv := range reviews {
		vectorID := uuid.NewString()
		doc := &model.ReviewDocument{
			ID:           vectorID,
			ReviewID:     rv.ID,
			Area:         rv.Area,
			PropertyType: rv.PropertyType,
			RentPaid:     rv.RentPaid,
			Rating:       rv.Rating,
			PropertyID:   rv.PropertyID,
			Document:     texts[i],
			Embedding:    embeddings[i],
		}
		if err := index.Add(ctx, doc); err != nil {
			return fmt.Errorf("failed to index review %d: %w", rv.ID, err)
		}
		if err := repo.SetReviewVectorID(ctx, rv.ID, vectorID); err != nil {
			return fmt.Errorf("failed to mark review %d as indexed: %w", rv.ID, err)
		}
	}

	total, err := index.Count(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"indexed": len(reviews),
		"total":   total,
		"took":    time.Since(start).String(),
	}).Info("Review index updated")
	return nil
}
