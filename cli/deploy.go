package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/inboxeng/deploykit/engine/deploy"
	"github.com/inboxeng/deploykit/engine/schema"
	"github.com/inboxeng/deploykit/pkg/logger"
)

// DeployCmd generates a deployable document for one client.
func DeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Merge the selected categories and render the deployment document",
		RunE:  runDeploy,
	}
	cmd.Flags().StringSlice("category", nil, "Business category to include (repeatable, selection order matters)")
	cmd.Flags().String("context", "", "Path to the runtime context JSON file")
	cmd.Flags().String("template", "", "Path to the deployment template")
	cmd.Flags().String("out", "", "Write the document to a file instead of stdout")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("context")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	categories, err := categoryFlag(cmd)
	if err != nil {
		return err
	}
	contextPath, _ := cmd.Flags().GetString("context")
	templatePath, _ := cmd.Flags().GetString("template")
	outPath, _ := cmd.Flags().GetString("out")

	runtime, err := readRuntimeContext(contextPath)
	if err != nil {
		return err
	}
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	loader, err := schema.NewLoader(afero.NewOsFs(), cfg.Store.Dir, cfg.Store.CacheSize)
	if err != nil {
		return err
	}
	pipeline := deploy.NewDeployment(loader, deploy.Options{
		StrictConsistency: cfg.Deploy.StrictConsistency,
		MaxRosterSlots:    cfg.Deploy.MaxRosterSlots,
	})
	result, err := pipeline.Execute(cmd.Context(), &deploy.Request{
		CategoryIDs: categories,
		Runtime:     runtime,
		Template:    string(template),
	})
	if err != nil {
		return err
	}
	logger.Info("deployment document ready", "request_id", result.RequestID)
	if outPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Document)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(result.Document), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}

func categoryFlag(cmd *cobra.Command) ([]schema.CategoryID, error) {
	raw, err := cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}
	categories := make([]schema.CategoryID, 0, len(raw))
	for _, c := range raw {
		categories = append(categories, schema.CategoryID(c))
	}
	return categories, nil
}

func readRuntimeContext(path string) (*deploy.RuntimeContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime context %s: %w", path, err)
	}
	var rc deploy.RuntimeContext
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse runtime context %s: %w", path, err)
	}
	return &rc, nil
}
