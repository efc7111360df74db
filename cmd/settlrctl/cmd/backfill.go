package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"settlr/internal/job"
	"settlr/internal/model"
	"settlr/internal/service"
)

func newBackfillCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Generate embeddings for listings that have none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			embedder := service.NewEmbeddingClient(&cfg.Embedding)
			if !embedder.IsEnabled() {
				return errors.New("embedding API key not set (EMBEDDING_API_KEY)")
			}
			if limit > 0 {
				cfg.Embedding.BackfillLimit = limit
			}

			repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			result, err := job.NewBackfiller(repo, embedder, cfg.Embedding).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d embedded=%d failed=%d\n",
				result.Scanned, result.Embedded, result.Failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum listings to embed (default from EMBEDDING_BACKFILL_LIMIT)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "verify <property-id>",
		Short: "Set the moderation status of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			properties := service.NewPropertyService(repo)
			if err := properties.SetStatus(cmd.Context(), args[0], model.ListingStatus(status)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(model.ListingVerified), "Pending, Verified or Flagged")
	return cmd
}
