package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/inboxeng/deploykit/engine/merge"
	"github.com/inboxeng/deploykit/engine/schema"
)

// ValidateCmd merges the selected categories and reports consistency
// without rendering a document.
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the selected categories merge into a consistent configuration",
		RunE:  runValidate,
	}
	cmd.Flags().StringSlice("category", nil, "Business category to include (repeatable)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	categories, err := categoryFlag(cmd)
	if err != nil {
		return err
	}
	loader, err := schema.NewLoader(afero.NewOsFs(), cfg.Store.Dir, cfg.Store.CacheSize)
	if err != nil {
		return err
	}
	schemas, err := loader.LoadAll(cmd.Context(), categories)
	if err != nil {
		return err
	}
	merged, err := merge.Schemas(schemas)
	if err != nil {
		return err
	}
	result := merge.Validate(merged)
	if !result.Valid {
		for _, orphan := range result.OrphanCategories {
			fmt.Fprintf(cmd.OutOrStdout(), "orphan category (no label): %s\n", orphan)
		}
		for _, orphan := range result.OrphanLabels {
			fmt.Fprintf(cmd.OutOrStdout(), "orphan label (no classification): %s\n", orphan)
		}
		return result.Err()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration is consistent: %d categories, %d top-level labels\n",
		len(merged.Categories), len(merged.Labels.TopLevelNames()))
	return nil
}
