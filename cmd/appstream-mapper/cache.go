package main

import (
	"fmt"

	"github.com/open-edge-platform/appstream-mapper/internal/cache"
	"github.com/spf13/cobra"
)

func createCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached artifacts",
		Long: `Manage cache directories used by appstream-mapper.

Available commands:
  clean    Remove the cached feed snapshot or downloaded icons`,
	}

	cacheCmd.AddCommand(createCacheCleanCommand())

	return cacheCmd
}

func createCacheCleanCommand() *cobra.Command {
	var (
		opts cache.CleanOptions
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the cached feed snapshot or downloaded icons",
		Long: `Remove cached artifacts to reclaim disk space or force a fresh run.

By default, the command removes the cached feed snapshot. Use flags to target
downloaded icons as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			feedFlag := cmd.Flags().Changed("feed")
			iconsFlag := cmd.Flags().Changed("icons")

			if all {
				opts.CleanFeed = true
				opts.CleanIcons = true
			} else if !feedFlag && !iconsFlag {
				opts.CleanFeed = true
			}

			if !opts.CleanFeed && !opts.CleanIcons {
				return fmt.Errorf("nothing to clean: specify --feed, --icons, or --all")
			}

			result, err := cache.Clean(opts)
			if err != nil {
				return err
			}

			output := []string{}
			if opts.DryRun {
				output = append(output, "Dry run: no files were deleted.")
			}

			if len(result.RemovedPaths) > 0 {
				header := "Removed paths:"
				if opts.DryRun {
					header = "Would remove:"
				}
				output = append(output, header)
				output = append(output, indentPaths(result.RemovedPaths)...)
			}

			if len(result.RemovedPaths) == 0 && len(result.SkippedPaths) == 0 {
				scopeDesc := "feed cache"
				if opts.CleanFeed && opts.CleanIcons {
					scopeDesc = "feed cache or icon"
				} else if opts.CleanIcons {
					scopeDesc = "icon"
				}
				output = append(output, fmt.Sprintf("No %s entries found.", scopeDesc))
			}

			if len(result.SkippedPaths) > 0 {
				output = append(output, "Skipped (not found):")
				output = append(output, indentPaths(result.SkippedPaths)...)
			}

			writer := cmd.OutOrStdout()
			for _, line := range output {
				fmt.Fprintln(writer, line)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove both the feed cache and downloaded icons")
	cmd.Flags().BoolVar(&opts.CleanFeed, "feed", false, "Remove the cached feed snapshot")
	cmd.Flags().BoolVar(&opts.CleanIcons, "icons", false, "Remove downloaded icons")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be removed without deleting anything")

	return cmd
}

func indentPaths(values []string) []string {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = "  " + v
	}
	return lines
}
