package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"settlr/internal/service"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <message...>",
		Short: "Print the search criteria parsed from a free-text message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := service.ExtractSearchCriteria(strings.Join(args, " "))

			out, err := json.MarshalIndent(criteria, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode criteria: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newFormatCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "format <listings.yaml>",
		Short: "Render listings from a YAML file the way the assistant sees them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatMode := service.FormatMode(mode)
			switch formatMode {
			case service.FormatDetailed, service.FormatCompact, service.FormatMarkdown:
			default:
				return fmt.Errorf("unknown format mode %q (want detailed, compact or markdown)", mode)
			}

			properties, err := loadListings(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.FormatProperties(properties, formatMode))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(service.FormatMarkdown), "Output mode: detailed, compact or markdown")
	return cmd
}
