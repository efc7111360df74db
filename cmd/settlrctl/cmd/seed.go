package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"settlr/internal/model"
	"settlr/internal/service"
	"settlr/internal/utils"
)

type listingsFile struct {
	Listings []any `yaml:"listings"`
}

// loadListings reads a YAML listings file. Keys follow the JSON field names
// of model.Property, so each entry is re-encoded through encoding/json.
func loadListings(path string) ([]model.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseListings(data)
}

func parseListings(data []byte) ([]model.Property, error) {
	var file listingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid listings YAML: %w", err)
	}

	raw, err := json.Marshal(file.Listings)
	if err != nil {
		return nil, fmt.Errorf("failed to convert listings: %w", err)
	}
	properties := []model.Property{}
	if err := json.Unmarshal(raw, &properties); err != nil {
		return nil, fmt.Errorf("invalid listing fields: %w", err)
	}

	for i := range properties {
		properties[i].Amenities = utils.CanonicalAmenities(properties[i].Amenities)
	}
	return properties, nil
}

func newSeedCmd() *cobra.Command {
	var (
		ownerID  string
		verified bool
		embed    bool
	)

	cmd := &cobra.Command{
		Use:   "seed <listings.yaml>",
		Short: "Insert listings from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			properties, err := loadListings(args[0])
			if err != nil {
				return err
			}

			repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			var embedder *service.EmbeddingClient
			if embed {
				embedder = service.NewEmbeddingClient(&cfg.Embedding)
				if !embedder.IsEnabled() {
					logrus.Warn("⚠️ Embedding API key not set, seeding without vectors")
					embedder = nil
				}
			}

			ctx := cmd.Context()
			created := 0
			for i := range properties {
				p := &properties[i]
				p.ID = ""
				if p.OwnerID == "" {
					p.OwnerID = ownerID
				}
				if verified {
					p.Verification.ListingStatus = model.ListingVerified
				}

				if err := repo.CreateProperty(ctx, p); err != nil {
					return fmt.Errorf("listing %d: %w", i+1, err)
				}
				created++

				if embedder != nil {
					embedListing(ctx, embedder, repo, p)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, deref(p.Title))
			}

			logrus.Infof("✅ Seeded %d listings", created)
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "seed", "Owner ID for listings that do not name one")
	cmd.Flags().BoolVar(&verified, "verified", false, "Mark seeded listings as verified")
	cmd.Flags().BoolVar(&embed, "embed", false, "Generate an embedding for each seeded listing")
	return cmd
}

type embeddingWriter interface {
	UpdateEmbedding(ctx context.Context, propertyID string, embedding []float32) error
}

func embedListing(ctx context.Context, embedder service.Embedder, store embeddingWriter, p *model.Property) {
	vectors, err := embedder.CreateEmbeddings(ctx, []string{service.EmbeddingText(p)})
	if err != nil || len(vectors) != 1 {
		logrus.Warnf("⚠️ Failed to embed listing %s: %v", p.ID, err)
		return
	}
	if err := store.UpdateEmbedding(ctx, p.ID, vectors[0]); err != nil {
		logrus.Warnf("⚠️ Failed to store embedding for %s: %v", p.ID, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
