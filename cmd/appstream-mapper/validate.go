package main

import (
	"fmt"

	"github.com/open-edge-platform/appstream-mapper/internal/mapping"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/spf13/cobra"
)

var verbose bool

// createValidateCommand creates the validate subcommand
func createValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate [flags] MAPPINGS_FILE",
		Short: "Validate a curated mapping table file",
		Long: `Validate a curated mapping table file against the schema without running a
correlation. The file must be in YAML format following the mappings schema.
This allows checking for errors in your table before using it in a run.`,
		Args:              cobra.ExactArgs(1),
		RunE:              executeValidate,
		ValidArgsFunction: yamlFileCompletion,
	}

	validateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"List the curated target attributes")

	return validateCmd
}

// executeValidate handles the validate command logic
func executeValidate(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	if len(args) < 1 {
		return fmt.Errorf("no mappings file provided, usage: appstream-mapper validate MAPPINGS_FILE")
	}
	mappingsFile := args[0]

	log.Infof("validating mappings file: %s", mappingsFile)

	table, err := mapping.Load(mappingsFile)
	if err != nil {
		return fmt.Errorf("mappings validation failed: %v", err)
	}

	log.Infof("✓ Mappings validation successful")
	log.Infof("  Entries: %d", table.Len())

	if verbose {
		log.Infof("  Target attributes:")
		for _, attr := range table.Targets() {
			log.Infof("    - %s", attr)
		}
	}

	return nil
}

// yamlFileCompletion helps with suggesting YAML files for the mappings argument
func yamlFileCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"*.yml", "*.yaml"}, cobra.ShellCompDirectiveFilterFileExt
}
